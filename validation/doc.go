// Package validation checks configuration and input values and reports
// failures as INVALID_INPUT AppErrors with per-field details.
//
// # Struct Tag Validation
//
//	type RxConfig struct {
//	    Scheduler string `mapstructure:"scheduler" validate:"omitempty,oneof=immediate deferred"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(endpoint != "", "observability.endpoint", "is required")
//	err := v.Err()
package validation
