package entities

// AlertAction defines a notification target for an alert rule.
// Channel is "email", "teams" or "banner"; the remaining fields are
// channel-specific and unused by the other channels.
type AlertAction struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	RuleID  uint   `gorm:"not null;index" json:"rule_id"`
	Channel string `gorm:"size:20;not null" json:"channel"`
	Enabled bool   `gorm:"not null;default:true" json:"enabled"`

	// email: comma-separated recipients plus subject/body templates.
	// teams: comma-separated recipient identities.
	Recipients string `gorm:"size:1000;default:''" json:"recipients"`
	Subject    string `gorm:"size:500;default:''" json:"subject"`
	Body       string `gorm:"size:4000;default:''" json:"body"`

	// banner: message template and auto-dismiss in seconds (0 = manual).
	Message        string `gorm:"size:2000;default:''" json:"message"`
	AutoDismissSec int    `gorm:"default:0" json:"auto_dismiss_sec"`

	SortOrder int `gorm:"default:0" json:"sort_order"`
}

// TableName returns the table name for GORM.
func (AlertAction) TableName() string {
	return "alert_actions"
}
