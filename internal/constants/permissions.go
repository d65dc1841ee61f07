package constants

const (
	CreateListing     = "create_listing"
	ModerateListing   = "moderate_listing"
	FeatureListing    = "feature_listing"
	ApplyToDemand     = "apply_to_demand"
	ApplyToService    = "apply_to_service"
	RequestRental     = "request_rental"
	CompleteAnyRental = "complete_any_rental"
	ReadAnyEvents     = "read_any_events"
	ViewMetrics       = "view_metrics"
)
