package catalog

// PolicyKind identifies one of the shop's legal policies
type PolicyKind string

const (
	PolicyKindPrivacy  PolicyKind = "privacyPolicy"
	PolicyKindRefund   PolicyKind = "refundPolicy"
	PolicyKindShipping PolicyKind = "shippingPolicy"
	PolicyKindTerms    PolicyKind = "termsOfService"
)

// policySlugs maps the public URL slugs to policy kinds
var policySlugs = map[string]PolicyKind{
	"ochrana-osobnich-udaju": PolicyKindPrivacy,
	"podminky-sluzby":        PolicyKindTerms,
	"vraceni-penez":          PolicyKindRefund,
	"dorucovani":             PolicyKindShipping,
}

var policyTitles = map[PolicyKind]string{
	PolicyKindPrivacy:  "Ochrana osobních údajů",
	PolicyKindTerms:    "Obchodní podmínky",
	PolicyKindRefund:   "Podmínky vrácení peněz",
	PolicyKindShipping: "Podmínky doručování",
}

// PolicyKindFromSlug resolves a URL slug. The second result is false for unknown slugs.
func PolicyKindFromSlug(slug string) (PolicyKind, bool) {
	kind, ok := policySlugs[slug]
	return kind, ok
}

// DisplayTitle returns the localized page title for the policy
func (k PolicyKind) DisplayTitle() string {
	if title, ok := policyTitles[k]; ok {
		return title
	}
	return string(k)
}

// Policy is a shop policy document. Body is HTML.
type Policy struct {
	Kind   PolicyKind `json:"kind"`
	Title  string     `json:"title"`
	Body   string     `json:"body"`
	Handle string     `json:"handle"`
}

// HasContent reports whether the policy has a body worth rendering.
func (p *Policy) HasContent() bool {
	return p != nil && p.Body != ""
}

// Policies is the full set of shop policies. Missing policies are nil.
type Policies struct {
	Privacy  *Policy `json:"privacyPolicy,omitempty"`
	Refund   *Policy `json:"refundPolicy,omitempty"`
	Shipping *Policy `json:"shippingPolicy,omitempty"`
	Terms    *Policy `json:"termsOfService,omitempty"`
}

// ByKind selects one policy from the set
func (p *Policies) ByKind(kind PolicyKind) *Policy {
	switch kind {
	case PolicyKindPrivacy:
		return p.Privacy
	case PolicyKindRefund:
		return p.Refund
	case PolicyKindShipping:
		return p.Shipping
	case PolicyKindTerms:
		return p.Terms
	default:
		return nil
	}
}
