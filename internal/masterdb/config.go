package masterdb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/utils"
)

// DiscoveryConfig drives schema introspection against the master database.
// The candidate lists are ordered; the first match wins. They can be
// overridden from a YAML file when a deployment's master schema drifts, so a
// rename over there is a config change here rather than a code change.
type DiscoveryConfig struct {
	EnrollmentTablePatterns    []string `yaml:"enrollment_table_patterns"`
	CampaignDoctorTablePattern []string `yaml:"campaign_doctor_table_patterns"`
	CampaignColumns            []string `yaml:"campaign_columns"`
	DoctorColumns              []string `yaml:"doctor_columns"`
	RegisteredByColumns        []string `yaml:"registered_by_columns"`

	DoctorIDColumns    []string `yaml:"doctor_id_columns"`
	DoctorUUIDColumns  []string `yaml:"doctor_uuid_columns"`
	DoctorEmailColumns []string `yaml:"doctor_email_columns"`
	DoctorPhoneColumns []string `yaml:"doctor_phone_columns"`
	DoctorNameColumns  []string `yaml:"doctor_name_columns"`
}

type Config struct {
	Driver     string          `yaml:"driver"`
	DSN        string          `yaml:"dsn"`
	CampaignID string          `yaml:"campaign_id"`
	Discovery  DiscoveryConfig `yaml:"discovery"`
}

func defaultDiscovery() DiscoveryConfig {
	return DiscoveryConfig{
		EnrollmentTablePatterns: []string{
			"%doctorcampaignenrollment%",
			"%doctor_campaign_enrollment%",
			"%campaignenrollment%",
			"%enrolment%",
		},
		CampaignDoctorTablePattern: []string{
			"%campaigndoctor%",
			"%campaign_doctor%",
		},
		CampaignColumns:     []string{"campaign_id", "campaign", "campaign_uuid"},
		DoctorColumns:       []string{"doctor_id", "doctor", "doctor_uuid"},
		RegisteredByColumns: []string{"registered_by_id", "registered_by", "field_rep_id", "fieldrep_id"},

		DoctorIDColumns:    []string{"id", "doctor_id", "uuid", "pk"},
		DoctorUUIDColumns:  []string{"uuid", "doctor_uuid", "external_id"},
		DoctorEmailColumns: []string{"email", "email_address"},
		DoctorPhoneColumns: []string{"phone", "mobile", "phone_number", "mobile_number", "whatsapp_number"},
		DoctorNameColumns:  []string{"first_name", "last_name", "full_name", "name"},
	}
}

// LoadConfig reads the master database settings from the environment, with
// an optional YAML file (MASTER_DB_CONFIG_FILE) layered on top for the
// discovery candidate lists.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Driver:     utils.GetEnv("MASTER_DB_DRIVER", "mysql", log),
		DSN:        utils.GetEnv("MASTER_DB_DSN", "", log),
		CampaignID: utils.GetEnv("MASTER_DB_CAMPAIGN_ID", "", log),
		Discovery:  defaultDiscovery(),
	}

	path := utils.GetEnv("MASTER_DB_CONFIG_FILE", "", log)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read master db config %s: %w", path, err)
		}
		var overlay Config
		if err := yaml.Unmarshal(raw, &overlay); err != nil {
			return Config{}, fmt.Errorf("parse master db config %s: %w", path, err)
		}
		cfg.merge(overlay)
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.Driver != "" {
		c.Driver = o.Driver
	}
	if o.DSN != "" {
		c.DSN = o.DSN
	}
	if o.CampaignID != "" {
		c.CampaignID = o.CampaignID
	}
	d := &c.Discovery
	if len(o.Discovery.EnrollmentTablePatterns) > 0 {
		d.EnrollmentTablePatterns = o.Discovery.EnrollmentTablePatterns
	}
	if len(o.Discovery.CampaignDoctorTablePattern) > 0 {
		d.CampaignDoctorTablePattern = o.Discovery.CampaignDoctorTablePattern
	}
	if len(o.Discovery.CampaignColumns) > 0 {
		d.CampaignColumns = o.Discovery.CampaignColumns
	}
	if len(o.Discovery.DoctorColumns) > 0 {
		d.DoctorColumns = o.Discovery.DoctorColumns
	}
	if len(o.Discovery.RegisteredByColumns) > 0 {
		d.RegisteredByColumns = o.Discovery.RegisteredByColumns
	}
	if len(o.Discovery.DoctorIDColumns) > 0 {
		d.DoctorIDColumns = o.Discovery.DoctorIDColumns
	}
	if len(o.Discovery.DoctorUUIDColumns) > 0 {
		d.DoctorUUIDColumns = o.Discovery.DoctorUUIDColumns
	}
	if len(o.Discovery.DoctorEmailColumns) > 0 {
		d.DoctorEmailColumns = o.Discovery.DoctorEmailColumns
	}
	if len(o.Discovery.DoctorPhoneColumns) > 0 {
		d.DoctorPhoneColumns = o.Discovery.DoctorPhoneColumns
	}
	if len(o.Discovery.DoctorNameColumns) > 0 {
		d.DoctorNameColumns = o.Discovery.DoctorNameColumns
	}
}
