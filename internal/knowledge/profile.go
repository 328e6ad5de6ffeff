// Package knowledge loads and validates the static business profile that
// grounds every generated reply.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "mail-assistant/internal/common/errors"
)

// Profile is the business knowledge base. It is loaded once at startup and
// treated as immutable afterwards.
type Profile struct {
	Name            string                     `json:"name"`
	Location        string                     `json:"location,omitempty"`
	Contact         Contact                    `json:"contact"`
	Specializations []string                   `json:"specializations"`
	Services        map[string]ServiceCategory `json:"services"`
	Staff           []StaffMember              `json:"staff"`
	Policies        map[string]string          `json:"policies"`
	Additional      string                     `json:"additional"`
}

type Contact struct {
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

type StaffMember struct {
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
}

// ServiceCategory accepts either a flat description string or an object of
// sub-service names to descriptions.
type ServiceCategory struct {
	Description string
	Items       map[string]string
}

func (s *ServiceCategory) UnmarshalJSON(data []byte) error {
	var flat string
	if err := json.Unmarshal(data, &flat); err == nil {
		s.Description = flat
		s.Items = nil
		return nil
	}

	var items map[string]string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("service category must be a string or an object of strings: %w", err)
	}
	s.Description = ""
	s.Items = items
	return nil
}

func (s ServiceCategory) MarshalJSON() ([]byte, error) {
	if s.Items != nil {
		return json.Marshal(s.Items)
	}
	return json.Marshal(s.Description)
}

// String renders the category as a single line. Map-shaped categories are
// joined in sorted key order so output is deterministic.
func (s ServiceCategory) String() string {
	if s.Items == nil {
		return s.Description
	}
	keys := make([]string, 0, len(s.Items))
	for k := range s.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, s.Items[k]))
	}
	return strings.Join(parts, "; ")
}

// Load reads a profile document from path and validates it against the
// profile schema before decoding.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewProfileValidationFailedError(
			fmt.Sprintf("cannot read profile %s: %v", path, err))
	}
	return Parse(data)
}

// Parse validates and decodes a raw profile document.
func Parse(data []byte) (*Profile, error) {
	schemaLoader := gojsonschema.NewStringLoader(profileSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, apperrors.NewProfileValidationFailedError(err.Error())
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, apperrors.NewProfileValidationFailedError(strings.Join(details, "; "))
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, apperrors.NewProfileValidationFailedError(err.Error())
	}
	return &profile, nil
}

// ServiceCategoryNames returns the profile's category keys in sorted order.
func (p *Profile) ServiceCategoryNames() []string {
	names := make([]string, 0, len(p.Services))
	for name := range p.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
