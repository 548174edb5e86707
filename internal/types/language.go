package types

// Language is a supported catalog language. The set is fixed: every
// VideoLanguage / VideoClusterLanguage row must carry one of these codes.
type Language struct {
	Code  string
	Label string
}

// Languages is the display order on the share page.
var Languages = []Language{
	{Code: "en", Label: "English"},
	{Code: "hi", Label: "Hindi"},
	{Code: "te", Label: "Telugu"},
	{Code: "ml", Label: "Malayalam"},
	{Code: "mr", Label: "Marathi"},
	{Code: "kn", Label: "Kannada"},
	{Code: "ta", Label: "Tamil"},
	{Code: "bn", Label: "Bengali"},
}

// LanguageCodes lists the codes in display order.
var LanguageCodes = func() []string {
	codes := make([]string, 0, len(Languages))
	for _, l := range Languages {
		codes = append(codes, l.Code)
	}
	return codes
}()

func IsSupportedLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}
