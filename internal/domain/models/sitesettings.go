package models

// DefaultSiteName is used when no site_name is configured.
const DefaultSiteName = "Instructor Luki"
