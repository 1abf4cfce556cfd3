package pages

// Content is the campaign copy rendered on the landing page
type Content struct {
	Title          string
	TitleHighlight string
	TitleSuffix    string
	Taglines       []string
	Details        []Detail
	Highlight      string
	RegularPrice   string
	EarlyBirdPrice string
	ReserveLabel   string
	Expert         Expert
}

// Detail is one line of the hero's event summary
type Detail struct {
	Label string
	Value string
}

// Expert is the speaker profile section
type Expert struct {
	Name     string
	Role     string
	PhotoURL string
	Intro    string
	Bio      []string
	Stats    []Detail
}

// DefaultContent returns the copy of the Cup Time franchise masterclass campaign
func DefaultContent() Content {
	return Content{
		Title:          "The Ultimate",
		TitleHighlight: "Franchise Masterclass",
		TitleSuffix:    "by Cup Time",
		Taglines: []string{
			"Join the live session and unlock franchise insights. Learn directly from the minds behind Cup Time.",
			"100+ Students Mentored | Expert Mentorship | B2B Tech Innovation",
		},
		Details: []Detail{
			{Label: "Date", Value: "June 22nd, 2025 (Sunday)"},
			{Label: "Time", Value: "11:00 AM IST"},
			{Label: "Location", Value: "Zoom Meeting"},
			{Label: "Contact", Value: "+91 916 916 1110"},
		},
		Highlight:      "100+ STUDENTS MENTORED and counting. Limited seats available.",
		RegularPrice:   "₹7,999",
		EarlyBirdPrice: "₹99",
		ReserveLabel:   "Click here to make the payment",
		Expert: Expert{
			Name:     "Prabhakaran Venugopal",
			Role:     "Founder & CEO, Cup Time",
			PhotoURL: "https://assets.coffeemug.ai/li-files/image-d30730e4-4a94-476f-b6c5-f470d8b53f20.jpg",
			Intro:    "Learn directly from a successful entrepreneur who has built a thriving tech-driven franchise business.",
			Bio: []string{
				"Prabhakaran Venugopal is the visionary founder of Cup Time, a tech-driven B2B subscription-based franchise business that has transformed the beverage delivery landscape in South India.",
				"Starting from Madurai, Cup Time has expanded to Coimbatore, bringing innovation to the traditional beverage industry through its franchise model and tech-enabled operations.",
				"With a passion for mentoring entrepreneurs, Prabhakaran has guided over 100 students and professionals in their business journey.",
			},
			Stats: []Detail{
				{Label: "Students Mentored", Value: "100+"},
				{Label: "Major Cities", Value: "2"},
				{Label: "Tech Innovation", Value: "B2B"},
			},
		},
	}
}
