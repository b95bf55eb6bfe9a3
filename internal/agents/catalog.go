// Package agents holds the catalog of agent personas and builds their system prompts.
package agents

import "strings"

// ID is the stable slug of a catalog agent.
type ID string

const (
	BusinessBlueprinting    ID = "business-blueprinting"
	BusinessSupportServices ID = "business-support-services"
	BusinessLegalSolutions  ID = "business-legal-solutions"
	HRSolutions             ID = "hr-solutions"
	FundingLoans            ID = "funding-loans"
	FinanceConsultation     ID = "finance-consultation"
	AccountManagement       ID = "account-management"
	AuditorsCompliance      ID = "auditors-compliance"
	ProductDevelopment      ID = "product-development"
	BrandingCreatives       ID = "branding-creatives"
	AIDigitalMarketing      ID = "ai-digital-marketing"
)

// FreeAgent is available to every user without a subscription.
const FreeAgent = BusinessBlueprinting

// Gate is the access rule an agent is protected by.
type Gate int

const (
	// GateFree is always allowed.
	GateFree Gate = iota
	// GateSubscription needs an active subscriptions row for the agent ID.
	GateSubscription
	// GateUnlock needs an unlocked agent_access row for the agent display name.
	GateUnlock
)

func (g Gate) String() string {
	switch g {
	case GateFree:
		return "free"
	case GateSubscription:
		return "subscription"
	case GateUnlock:
		return "unlock"
	default:
		return "unknown"
	}
}

// Agent is a catalog entry. Known is false for names outside the catalog.
type Agent struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Gate  Gate   `json:"-"`
	Known bool   `json:"-"`
}

// Persona returns the fixed persona text for the agent.
func (a Agent) Persona() string {
	return Persona(a.ID)
}

var catalog = []Agent{
	{ID: BusinessBlueprinting, Name: "Business Blueprinting Agent", Gate: GateFree, Known: true},
	{ID: BusinessSupportServices, Name: "Business Support Services Agent", Gate: GateUnlock, Known: true},
	{ID: BusinessLegalSolutions, Name: "Business Legal Solutions Agent", Gate: GateSubscription, Known: true},
	{ID: HRSolutions, Name: "HR Solutions Agent", Gate: GateSubscription, Known: true},
	{ID: FundingLoans, Name: "Funding & Loans Agent", Gate: GateSubscription, Known: true},
	{ID: FinanceConsultation, Name: "Finance Consultation Agent", Gate: GateSubscription, Known: true},
	{ID: AccountManagement, Name: "Account Management Agent", Gate: GateSubscription, Known: true},
	{ID: AuditorsCompliance, Name: "Auditors & Compliance Agent", Gate: GateSubscription, Known: true},
	{ID: ProductDevelopment, Name: "Product Development Agent", Gate: GateSubscription, Known: true},
	{ID: BrandingCreatives, Name: "Branding & Creatives Agent", Gate: GateSubscription, Known: true},
	{ID: AIDigitalMarketing, Name: "AI Digital Marketing Agent", Gate: GateSubscription, Known: true},
}

// All returns a copy of the catalog in display order.
func All() []Agent {
	out := make([]Agent, len(catalog))
	copy(out, catalog)
	return out
}

// Default returns the free agent.
func Default() Agent {
	return catalog[0]
}

// Lookup finds a catalog agent by slug ID or display name (case-insensitive).
func Lookup(name string) (Agent, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Agent{}, false
	}
	for _, a := range catalog {
		if strings.EqualFold(string(a.ID), name) || strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Agent{}, false
}

// Resolve maps a requested agent to a catalog entry. Empty means the free agent.
// Names outside the catalog come back with Known=false, the raw name as ID and Name,
// and a subscription gate keyed by that raw name.
func Resolve(requested string) Agent {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return Default()
	}
	if a, ok := Lookup(requested); ok {
		return a
	}
	return Agent{ID: ID(requested), Name: requested, Gate: GateSubscription}
}

// Persona selects persona text by agent ID. Anything outside the catalog gets the
// Business Blueprinting persona.
func Persona(id ID) string {
	switch id {
	case BusinessSupportServices:
		return "You are the Business Support Services Agent. Help with company registration, GST setup, bank account opening, and operational services. Provide guidance on processes, timelines, and checklists. Be concise and action-oriented."
	case BusinessLegalSolutions:
		return "You are the Business Legal Solutions Agent. Provide guidance on legal matters including contracts, intellectual property, compliance, and regulatory requirements. Always recommend consulting with a licensed attorney for critical legal decisions."
	case HRSolutions:
		return "You are the HR Solutions Agent. Advise on HR policies, recruitment, employee management, payroll, and workplace compliance. Help with hiring strategies and employee development."
	case FundingLoans:
		return "You are the Funding & Loans Agent. Guide entrepreneurs on fundraising strategies, investor relations, loan options, and alternative financing. Help with pitch preparation and financial projections."
	case FinanceConsultation:
		return "You are the Finance Consultation Agent. Provide financial planning, budgeting, cash flow management, and financial forecasting advice. Help optimize business finances and growth strategies."
	case AccountManagement:
		return "You are the Account Management Agent. Help with bookkeeping, invoicing, financial records management, expense tracking, and accounting best practices."
	case AuditorsCompliance:
		return "You are the Auditors & Compliance Agent. Guide on audit management, compliance requirements, risk assessment, and regulatory adherence."
	case ProductDevelopment:
		return "You are the Product Development Agent. Advise on product strategy, development roadmap, market fit validation, feature prioritization, and product-market fit."
	case BrandingCreatives:
		return "You are the Branding & Creatives Agent. Help with brand strategy, visual identity, logo design, messaging, and marketing creative development."
	case AIDigitalMarketing:
		return "You are the AI Digital Marketing Agent. Advise on digital marketing strategy, SEO optimization, social media marketing, content strategy, and growth hacking techniques."
	case BusinessBlueprinting:
		fallthrough
	default:
		return "You are the Business Blueprinting Agent for Startup Setu. Your role is to help validate and structure startup ideas, ask clarifying questions, and help the founder sharpen their value proposition and early model. You MUST ask clarifying questions when information is missing. Be collaborative, empathetic, and practical."
	}
}
