package content

// Link is a static hyperlink on the page.
type Link struct {
	Label    string
	Href     string
	External bool
}

// Metric is a headline figure in the hero banner.
type Metric struct {
	Value string
	Label string
}

// SkillGroup is one card of the skills grid.
type SkillGroup struct {
	Title string
	Items []string
}

// Role is one entry of the experience list.
type Role struct {
	Title   string
	Period  string
	Bullets []string
}

// Profile is everything the page shows besides the charts.
type Profile struct {
	Name           string
	Tagline        string
	ContactPills   []Link
	Metrics        []Metric
	About          string
	Skills         []SkillGroup
	Experience     []Role
	PortfolioLinks []Link
	ContactLinks   []Link
	Copyright      string
}

var (
	Name = "Derick R. Cabrera"

	Tagline = "E-commerce Specialist & Full Stack Developer | Amazon & Digital Marketing Strategist"

	Email = "Dcabrera70074@gmail.com"

	PhoneDisplay = "+971 56 715 2684"

	PhoneLink = "tel:+971567152684"

	AboutMe = `I'm a versatile professional combining E-commerce expertise with Full Stack Development skills.
	My unique blend of technical knowledge and marketing strategy allows me to create seamless digital
	experiences while driving business growth. From building responsive web applications to optimizing
	e-commerce platforms, I bring a comprehensive approach to digital success.`

	Copyright = "© 2024 Derick R. Cabrera. All rights reserved."
)

// DefaultProfile returns the portfolio copy. Each call builds fresh slices.
func DefaultProfile() Profile {
	return Profile{
		Name:    Name,
		Tagline: Tagline,
		ContactPills: []Link{
			{Label: Email, Href: "mailto:" + Email},
			{Label: PhoneDisplay, Href: PhoneLink},
			{Label: "LinkedIn", Href: "https://linkedin.com/in/derick-cabrera-499797299", External: true},
		},
		Metrics: []Metric{
			{Value: "AED 9.2M+", Label: "Revenue Generated"},
			{Value: "250%", Label: "Average ROI"},
			{Value: "50K+", Label: "Products Managed"},
		},
		About: AboutMe,
		Skills: []SkillGroup{
			{Title: "Development", Items: []string{"React & TypeScript", "Next.js & Vite", "Node.js & Express", "TailwindCSS & SCSS"}},
			{Title: "Design", Items: []string{"Figma & Adobe XD", "UI/UX Design", "Responsive Design", "Design Systems"}},
			{Title: "E-commerce", Items: []string{"Amazon & Noon", "Shopify Development", "Custom E-commerce", "Payment Integration"}},
			{Title: "Digital Marketing", Items: []string{"SEO Optimization", "Analytics & Tracking", "Content Strategy", "Social Media"}},
		},
		Experience: []Role{
			{
				Title:  "Full Stack Developer & E-commerce Specialist",
				Period: "2024 - Present",
				Bullets: []string{
					"Developing responsive web applications using React and TypeScript",
					"Creating custom e-commerce solutions and integrations",
					"Implementing SEO strategies and performance optimizations",
					"Managing marketplace listings and PPC campaigns",
				},
			},
		},
		PortfolioLinks: []Link{
			{Label: "Amazon Store", Href: "https://www.amazon.ae/Baseus", External: true},
			{Label: "Noon Store", Href: "https://www.noon.com/uae-en/~baseus/", External: true},
			{Label: "Facebook", Href: "https://www.facebook.com/share/15b9mTVPvR/", External: true},
			{Label: "Instagram", Href: "https://www.instagram.com/baseus_uae", External: true},
		},
		ContactLinks: []Link{
			{Label: "Email Me", Href: "mailto:" + Email},
			{Label: "WhatsApp", Href: "https://wa.me/971567152684", External: true},
		},
		Copyright: Copyright,
	}
}
