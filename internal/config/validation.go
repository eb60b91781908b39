package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// LogValidationErrors logs each field-level validator.ValidationErrors
// entry in err, the same per-field reporting shape as the teacher's
// internal/common/config/validation.go#LogValidationErrors.
func LogValidationErrors(err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		log.WithError(err).Error("config: invalid configuration")
		return
	}
	for _, fe := range verrs {
		field := stripPrefix(fe.Namespace())
		if fe.Tag() == "required" {
			log.Errorf("config: field %s is required but was not found", field)
			continue
		}
		log.Errorf("config: field %s has invalid value %v: %s", field, fe.Value(), fe.Tag())
	}
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}
