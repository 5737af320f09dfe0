package entities

// AlertCondition defines a single comparison within a rule's condition chain.
// Conditions combine left to right: condition i>0 joins the running result
// using its LogicalOperator ("AND" or "OR"). The first condition's
// LogicalOperator is never consulted.
type AlertCondition struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RuleID          uint   `gorm:"not null;index" json:"rule_id"`
	Field           string `gorm:"size:100;not null" json:"field"`
	Operator        string `gorm:"size:20;not null" json:"operator"`
	Value           string `gorm:"size:500;default:''" json:"value"`
	Value2          string `gorm:"size:500;default:''" json:"value2"`
	LogicalOperator string `gorm:"size:3;not null;default:'AND'" json:"logical_operator"`
	SortOrder       int    `gorm:"default:0" json:"sort_order"`
}

// TableName returns the table name for GORM.
func (AlertCondition) TableName() string {
	return "alert_conditions"
}
