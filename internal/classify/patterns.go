package classify

var urlPatterns = []string{
	"/terms", "/tos", "/terms-of-service", "/terms-of-use", "/terms-and-conditions",
	"/eula", "/end-user-license-agreement", "/license-agreement", "/user-agreement",
	"/privacy", "/privacy-policy", "/data-policy", "/data-protection",
	"/cookie", "/cookie-policy", "/cookie-notice",
	"/legal", "/disclaimer", "/guidelines", "/rules", "/conditions",
	"/refund-policy", "/returns", "/shipping-policy", "/return-policy",
	"/acceptable-use", "/acceptable-use-policy", "/community-guidelines",
	"/content-policy", "/copyright", "/ip-policy", "/ip-notice",
	"/dmca", "/gdpr", "/ccpa", "/personal-information", "/data-processing",
	"/dispute", "/arbitration", "/class-action", "/liability",
	"/api-terms", "/api-policy", "/developer-terms", "/developer-policy",
	"/subscription-terms", "/billing-policy", "/payment-terms",
	"/accessibility", "/nda", "/confidentiality", "/workplace-policy",
	"/internet-services/itunes", "/apple-pay", "/app-store/terms-conditions",
}

// Matched as plain substrings, so short entries such as "nda" also hit
// unrelated words. Kept that way; the body and URL tests are stricter.
var titlePatterns = []string{
	"terms", "term of", "conditions", "privacy", "policy", "legal", "eula",
	"license agreement", "user agreement", "copyright", "disclaimer",
	"cookies", "gdpr", "ccpa", "data protection", "refund", "return",
	"acceptable use", "community guidelines", "content policy", "api terms",
	"arbitration", "dispute resolution", "liability", "indemnification",
	"confidentiality", "nda", "non-disclosure", "apple media services",
}

var headingPatterns = []string{
	"terms of service", "terms of use", "terms and conditions",
	"end user license agreement", "eula", "privacy policy",
	"cookie policy", "user agreement", "legal terms",
	"refund policy", "return policy", "shipping policy",
	"acceptable use policy", "community guidelines", "content policy",
	"api terms", "developer terms", "copyright notice",
	"disclaimer", "gdpr", "ccpa", "data protection",
	"arbitration agreement", "dispute resolution", "liability",
	"non-disclosure agreement", "confidentiality", "workplace policy",
	"apple media services", "itunes store terms",
}

var bodyPhrases = []string{
	"terms of service", "terms of use", "end user license agreement",
	"privacy policy", "acceptable use policy", "cookie policy",
	"terms and conditions", "user agreement", "legal notice",
	"by accessing this", "by using this", "you agree to", "you consent to",
	"legal agreement between", "binding agreement", "at its sole discretion",
	"intellectual property rights", "limited license to", "copyright protection",
	"warranty disclaimer", "limitation of liability", "indemnification",
	"governing law", "jurisdiction", "arbitration", "dispute resolution",
	"class action waiver", "severability", "entire agreement",
	"modifications to these terms", "termination of account",
	"refund policy", "return policy", "shipping policy",
	"data processing agreement", "gdpr compliance", "ccpa compliance",
	"personal information collection", "data controller", "data processor",
	"subscription terms", "billing agreement", "payment processing",
	"prohibited content", "prohibited conduct", "content moderation",
	"api usage", "developer guidelines", "rate limiting",
	"confidentiality obligations", "non-disclosure", "workplace policy",
	"apple media services", "apple id", "itunes store",
}

var legalDomains = []string{
	"termsfeed.com", "tosdr.org", "apple.com/legal", "iubenda.com",
	"privacypolicy.com", "termsofservice.com", "policies.google.com",
	"facebook.com/policy", "twitter.com/tos", "legal.yahoo.com",
	"amazon.com/gp/help/customer/display.html", "adobe.com/legal",
	"linkedin.com/legal", "github.com/site/terms", "spotify.com/legal",
	"paypal.com/webapps/mpp/ua", "netflix.com/legal",
}
