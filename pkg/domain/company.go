package domain

// Company is a normalized company profile.
type Company struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name"`
	LinkedInID    string          `json:"linkedInId,omitempty"`
	LinkedInURL   string          `json:"linkedInUrl,omitempty"`
	Tagline       string          `json:"tagline,omitempty"`
	Description   string          `json:"description,omitempty"`
	Website       string          `json:"website,omitempty"`
	Industries    []string        `json:"industries,omitempty"`
	Specialties   []string        `json:"specialties,omitempty"`
	EmployeeCount int             `json:"employeeCount,omitempty"`
	EmployeeRange string          `json:"employeeRange,omitempty"`
	FollowerCount int             `json:"followerCount,omitempty"`
	Headquarters  string          `json:"headquarters,omitempty"`
	Founded       string          `json:"founded,omitempty"`
	Logo          string          `json:"logo,omitempty"`
	RecentUpdates []CompanyUpdate `json:"recentUpdates,omitempty"`
}

// CompanyUpdate is one recent post published by a company page.
type CompanyUpdate struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	URL       string `json:"url,omitempty"`
	PostedAt  string `json:"postedAt,omitempty"`
	Reactions int    `json:"reactions,omitempty"`
	Comments  int    `json:"comments,omitempty"`
}

// CompanyPosts groups collected posts under the company that published them.
type CompanyPosts struct {
	Company string          `json:"company"`
	Posts   []CompanyUpdate `json:"posts"`
}
