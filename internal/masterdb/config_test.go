package masterdb

import "testing"

func TestConfigMergeOverridesDoctorColumns(t *testing.T) {
	cfg := Config{Discovery: defaultDiscovery()}
	cfg.merge(Config{Discovery: DiscoveryConfig{
		DoctorEmailColumns: []string{"mail"},
	}})

	if len(cfg.Discovery.DoctorEmailColumns) != 1 || cfg.Discovery.DoctorEmailColumns[0] != "mail" {
		t.Fatalf("email columns not overridden: %v", cfg.Discovery.DoctorEmailColumns)
	}
	// Lists absent from the overlay keep their defaults.
	if len(cfg.Discovery.DoctorColumns) == 0 || cfg.Discovery.DoctorColumns[0] != "doctor_id" {
		t.Fatalf("doctor fk candidates lost: %v", cfg.Discovery.DoctorColumns)
	}
	if len(cfg.Discovery.DoctorIDColumns) == 0 || cfg.Discovery.DoctorIDColumns[0] != "id" {
		t.Fatalf("doctor id candidates lost: %v", cfg.Discovery.DoctorIDColumns)
	}
}
