package validators

import (
	"strings"

	"tripshare/internal/services"
)

func ValidateProfileUpdate(req *services.UpdateProfileRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		*req.Name = trimmed
		if trimmed == "" {
			errors = append(errors, ValidationError{
				Field:   "name",
				Tag:     "required",
				Message: "Name must not be blank",
			})
		}
	}

	if req.Phone != nil && *req.Phone != "" {
		if !phoneRegexp.MatchString(*req.Phone) {
			errors = append(errors, ValidationError{
				Field:   "phone",
				Tag:     "phone_number",
				Message: "Invalid phone number format",
			})
		}
	}

	return errors
}

func ValidateCreateReview(req *services.CreateReviewRequest) ValidationErrors {
	return ValidateStruct(req)
}
