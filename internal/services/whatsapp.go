package services

import (
	"net/url"
	"strings"

	"github.com/yungbote/clinicshare-backend/internal/types"
)

// Patient-facing WhatsApp message prefixes, one per supported language.
// The {doctor} placeholder is filled with the doctor's display name; the
// templates deliberately do not embed video URLs, those are appended by the
// share page client.
var whatsappTemplates = map[string]string{
	"en": "Your doctor {doctor} has sent you the following video/videos. " +
		"It is very important that you view them and follow the instructions, " +
		"as these are for important observations by your doctor. " +
		"Your child's health and wellbeing depend upon following the instructions in the videos. ",
	"hi": "आपके डॉक्टर {doctor} ने आपको निम्न वीडियो/वीडियो भेजे हैं। " +
		"कृपया इन्हें ध्यान से देखें और वीडियो में दिए गए निर्देशों का पालन करें, " +
		"क्योंकि ये आपके डॉक्टर के महत्वपूर्ण निरीक्षणों के लिए हैं। " +
		"आपके बच्चे का स्वास्थ्य और भलाई इन वीडियो में दिए गए निर्देशों का पालन करने पर निर्भर है। ",
	"te": "మీ డాక్టర్ {doctor} మీకు క్రింది వీడియో/వీడియోలను పంపించారు. " +
		"దయచేసి వాటిని జాగ్రత్తగా వీక్షించి, వీడియోలలో ఇచ్చిన సూచనలను అనుసరించండి, " +
		"ఎందుకంటే ఇవి మీ డాక్టర్ చేసిన ముఖ్యమైన పరిశీలనల కోసం. " +
		"మీ పిల్లల ఆరోగ్యం మరియు శ్రేయస్సు ఈ వీడియోల సూచనలను అనుసరించడంపై ఆధారపడి ఉంటుంది. ",
	"ml": "നിങ്ങളുടെ ഡോക്ടർ {doctor} നിങ്ങള്‍ക്കായി താഴെ പറയുന്ന വീഡിയോ/വീഡിയോകള്‍ അയച്ചിട്ടുണ്ട്. " +
		"ദയവായി അവ ശ്രദ്ധാപൂർവ്വം കാണുകയും വീഡിയോയിലെ നിർദ്ദേശങ്ങൾ പാലിക്കുകയും ചെയ്യുക, " +
		"കാരണം ഇവ നിങ്ങളുടെ ഡോക്ടറുടെ പ്രധാനപ്പെട്ട നിരീക്ഷണങ്ങൾക്കായാണ്. " +
		"നിങ്ങളുടെ കുട്ടിയുടെ ആരോഗ്യവും ക്ഷേമവും വീഡിയോയിലെ നിർദ്ദേശങ്ങൾ പാലിക്കുന്നതിനെ ആശ്രയിച്ചിരിക്കുന്നു. ",
	"mr": "आपल्या डॉक्टर {doctor} यांनी आपल्याला खालील व्हिडिओ/व्हिडिओ पाठवले आहेत. " +
		"कृपया ते काळजीपूर्वक पाहा आणि व्हिडिओमध्ये दिलेल्या सूचनांचे पालन करा, " +
		"कारण हे आपल्या डॉक्टरांच्या महत्त्वाच्या निरीक्षणांसाठी आहेत. " +
		"आपल्या मुलाचे आरोग्य आणि कल्याण हे व्हिडिओमधील सूचनांचे पालन करण्यावर अवलंबून आहे. ",
	"kn": "ನಿಮ್ಮ ವೈದ್ಯರು {doctor} ಅವರು ನಿಮಗೆ ಕೆಳಗಿನ ವೀಡಿಯೊ/ವೀಡಿಯೊಗಳನ್ನು ಕಳುಹಿಸಿದ್ದಾರೆ. " +
		"ದಯವಿಟ್ಟು ಅವನ್ನು ಗಮನದಿಂದ ನೋಡಿ ಹಾಗೂ ವೀಡಿಯೊಗಳಲ್ಲಿ ನೀಡಿರುವ ಸೂಚನೆಗಳನ್ನು ಅನುಸರಿಸಿ, " +
		"ಏಕೆಂದರೆ ಇವು ನಿಮ್ಮ ವೈದ್ಯರ ಮಹತ್ವದ ಗಮನಿಸಿಕೆಗಳಿಗಾಗಿ. " +
		"ನಿಮ್ಮ ಮಗುವಿನ ಆರೋಗ್ಯ ಮತ್ತು ಕಲ್ಯಾಣವು ವೀಡಿಯೊಗಳ ಸೂಚನೆಗಳನ್ನು ಪಾಲಿಸುವುದರ ಮೇಲೆ ಅವಲಂಬಿತವಾಗಿದೆ. ",
	"ta": "உங்கள் மருத்துவர் {doctor} உங்களுக்கு கீழ்க்கண்ட வீடியோ/வீடியோக்களை அனுப்பியுள்ளார். " +
		"தயவுசெய்து அவற்றை கவனமாகப் பார்த்து, வீடியோவில் கொடுக்கப்பட்ட வழிமுறைகளைப் பின்பற்றுங்கள், " +
		"ஏனெனில் இவை உங்கள் மருத்துவரின் முக்கியமான கண்காணிப்புகளுக்கானவை. " +
		"உங்கள் குழந்தையின் ஆரோக்கியமும் நலனும் இந்த வீடியோக்களில் உள்ள வழிமுறைகளைப் பின்பற்றுவதில் சார்ந்துள்ளது. ",
	"bn": "আপনার ডাক্তার {doctor} আপনাকে নিম্নলিখিত ভিডিও/ভিডিওগুলো পাঠিয়েছেন। " +
		"অনুগ্রহ করে সেগুলো মনোযোগ দিয়ে দেখুন এবং ভিডিওতে দেওয়া নির্দেশনা অনুসরণ করুন, " +
		"কারণ এগুলো আপনার ডাক্তারের গুরুত্বপূর্ণ পর্যবেক্ষণের জন্য। " +
		"আপনার শিশুর স্বাস্থ্য ও সুস্থতা ভিডিওগুলোর নির্দেশনা অনুসরণের উপর নির্ভর করে। ",
}

// BuildWhatsAppMessagePrefixes renders the per-language message prefixes for
// one doctor. With an empty doctor name, English falls back to "your doctor"
// while the localized templates drop the placeholder entirely.
func BuildWhatsAppMessagePrefixes(doctorName string) map[string]string {
	doctor := strings.TrimSpace(doctorName)

	out := make(map[string]string, len(types.Languages))
	for _, lang := range types.Languages {
		tmpl, ok := whatsappTemplates[lang.Code]
		if !ok {
			tmpl = whatsappTemplates["en"]
		}
		switch {
		case lang.Code == "en" && doctor == "":
			out[lang.Code] = strings.ReplaceAll(tmpl, "{doctor}", "your doctor")
		case doctor == "":
			stripped := strings.ReplaceAll(tmpl, "{doctor} ", "")
			stripped = strings.ReplaceAll(stripped, "{doctor}", "")
			out[lang.Code] = strings.TrimSpace(stripped) + " "
		default:
			out[lang.Code] = strings.ReplaceAll(tmpl, "{doctor}", doctor)
		}
	}
	return out
}

// WhatsAppShareLink builds a wa.me link that opens WhatsApp with the given
// message pre-filled.
func WhatsAppShareLink(message string) string {
	return "https://wa.me/?text=" + url.QueryEscape(message)
}
