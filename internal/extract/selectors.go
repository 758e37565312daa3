package extract

// ContentSelectors is the prioritized cascade: legal-specific names first,
// then generic content containers, then embedded frames.
var ContentSelectors = []string{
	"div.terms", "div.terms-of-service", "div.tos", "div.privacy-policy", "div.legal",
	"div.eula", "div.agreement", "div.conditions", "div.policy",
	"section.terms", "section.privacy", "section.legal", "section.policy",
	"article.terms", "article.privacy", "article.legal", "article.policy",
	".legal-content", ".terms-content", ".privacy-content", ".policy-content",
	"#terms", "#privacy", "#legal", "#tos", "#eula", "#agreement", "#conditions", "#policy",
	".terms", ".privacy", ".tos", ".agreement", ".policy",

	`main[role="main"]`, "main", "article", ".main-content", ".article-content",
	".page-content", ".content-wrapper", "#content", "#main", "#main-content",

	".main.terms", ".main.legal", "#main-content section", `section[data-analytics-section="legal"]`,
	`[data-testid="legal-content"]`, `[data-testid="terms"]`, `[data-testid="privacy"]`,
	`[data-component="legal"]`, `[data-component="terms"]`,

	".container", ".content", ".page", ".page-container", ".wrapper", ".main",
	"#container", "#wrapper", "#page", "#policy-content",

	`iframe[src*="terms"]`, `iframe[src*="privacy"]`, `iframe[src*="legal"]`,
}

// AttributeKeywords are matched as substrings of id and class attributes
var AttributeKeywords = []string{"terms", "privacy", "legal", "policy", "eula", "conditions"}

// BlockSelector lists the elements the aggressive scan inspects
const BlockSelector = "p, li, div, section, article, h1, h2, h3, h4, h5, h6"
