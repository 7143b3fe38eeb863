package brand

// ID identifies a tenant. The set is closed: adding a brand means adding an
// entry to the registry table below, not dynamic provisioning.
type ID string

const (
	Acme   ID = "acme"
	Globex ID = "globex"
)

type Features struct {
	EnableChat      bool `json:"enable_chat"`
	EnableAnalytics bool `json:"enable_analytics"`
}

type Config struct {
	ID              ID       `json:"id"`
	DisplayName     string   `json:"display_name"`
	PrimaryColor    string   `json:"primary_color"`
	LogoPath        string   `json:"logo_path"`
	EmailDomains    []string `json:"email_domains"`
	Features        Features `json:"features"`
	Schema          string   `json:"-"`
	AuthRedirectURL string   `json:"auth_redirect_url"`
}

// Compiled-in brand table. Loaded into the default registry once at process
// start; read-only afterwards.
var brandTable = []Config{
	{
		ID:              Acme,
		DisplayName:     "Acme",
		PrimaryColor:    "#E4572E",
		LogoPath:        "/brands/acme/logo.svg",
		EmailDomains:    []string{"acme.com", "acme.co.uk"},
		Features:        Features{EnableChat: true, EnableAnalytics: true},
		Schema:          "acme",
		AuthRedirectURL: "https://app.acme.com/auth/callback",
	},
	{
		ID:              Globex,
		DisplayName:     "Globex",
		PrimaryColor:    "#17BEBB",
		LogoPath:        "/brands/globex/logo.svg",
		EmailDomains:    []string{"globex.com"},
		Features:        Features{EnableChat: true, EnableAnalytics: false},
		Schema:          "globex",
		AuthRedirectURL: "https://app.globex.com/auth/callback",
	},
}
