package api

import (
	"errors"   // Error inspection
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"reflect"  // Struct tag lookup
	"sort"     // Stable first message
	"strings"  // String manipulation
	"sync"     // One-time validator setup

	"account_portal/internal/service" // Error codes

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Request binding
	"github.com/go-playground/validator/v10" // Validation errors
	"github.com/sirupsen/logrus"             // Logging
)

// FieldErrors maps a request field to its messages
type FieldErrors map[string][]string

// errorMapping is how a coded service error is shown to clients
type errorMapping struct {
	status  int
	field   string // Empty for errors not tied to a field
	message string
}

var serviceErrors = map[string]errorMapping{
	service.CodeInvalidCredentials:   {http.StatusUnauthorized, "email", "These credentials do not match our records."},
	service.CodeEmailNotVerified:     {http.StatusLocked, "", "email-not-verified"},
	service.CodeEmailTaken:           {http.StatusUnprocessableEntity, "email", "The email has already been taken."},
	service.CodePasswordTooShort:     {http.StatusUnprocessableEntity, "password", fmt.Sprintf("The password field must be at least %d characters.", service.MinPasswordLength)},
	service.CodePasswordTooLong:      {http.StatusUnprocessableEntity, "password", fmt.Sprintf("The password field must not be greater than %d characters.", service.MaxPasswordLength)},
	service.CodeNameRequired:         {http.StatusUnprocessableEntity, "name", "The name field is required."},
	service.CodeUserNotFound:         {http.StatusNotFound, "", "User not found."},
	service.CodeInvalidSignature:     {http.StatusForbidden, "", "Invalid signature."},
	service.CodeHashMismatch:         {http.StatusForbidden, "", "Invalid verification link."},
	service.CodeInvalidResetToken:    {http.StatusUnprocessableEntity, "email", "This password reset token is invalid."},
	service.CodeCurrentPassword:      {http.StatusUnprocessableEntity, "current_password", "The password is incorrect."},
	service.CodeInvalidPassword:      {http.StatusUnprocessableEntity, "password", "The password is incorrect."},
	service.CodeInvalidTheme:         {http.StatusUnprocessableEntity, "theme", "The selected theme is invalid."},
	service.CodeAvatarInvalid:        {http.StatusUnprocessableEntity, "avatar", "The avatar field must be a jpeg, png, gif or webp image."},
	service.CodeAvatarTooLarge:       {http.StatusUnprocessableEntity, "avatar", "The avatar field is too large."},
	service.CodeNotificationNotFound: {http.StatusNotFound, "", "Notification not found."},
}

// respondError writes err as JSON. Uncoded errors are logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	mapped, ok := serviceErrors[service.ErrorCode(err)]
	if !ok {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method, // HTTP method
			"path":   c.FullPath(),     // Matched route
			"error":  err.Error(),      // Error message
		}).Error("Request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	if mapped.field == "" {
		c.AbortWithStatusJSON(mapped.status, gin.H{"message": mapped.message})
		return
	}
	c.AbortWithStatusJSON(mapped.status, gin.H{
		"message": mapped.message,
		"errors":  FieldErrors{mapped.field: {mapped.message}},
	})
}

// respondValidation writes a 422 carrying every field error
func respondValidation(c *gin.Context, errs FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	message := "The given data was invalid."
	if len(fields) > 0 && len(errs[fields[0]]) > 0 {
		message = errs[fields[0]][0]
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": message, "errors": errs})
}

// bindJSON decodes and validates the body into req, answering the request on failure
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondValidation(c, translateValidation(verrs))
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
	return false
}

// requireConfirmed adds a field error unless confirmation equals value
func requireConfirmed(errs FieldErrors, field, value, confirmation string) {
	if value != confirmation {
		errs[field] = append(errs[field], "The "+humanize(field)+" field confirmation does not match.")
	}
}

func translateValidation(verrs validator.ValidationErrors) FieldErrors {
	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		out[field] = append(out[field], validationMessage(field, fe))
	}
	return out
}

func validationMessage(field string, fe validator.FieldError) string {
	name := humanize(field)
	switch fe.Tag() {
	case "required":
		return "The " + name + " field is required."
	case "email":
		return "The " + name + " field must be a valid email address."
	case "min":
		return "The " + name + " field must be at least " + fe.Param() + " characters."
	case "max":
		return "The " + name + " field must not be greater than " + fe.Param() + " characters."
	case "oneof":
		return "The selected " + name + " is invalid."
	default:
		return "The " + name + " field is invalid."
	}
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json names instead of Go field names
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}
