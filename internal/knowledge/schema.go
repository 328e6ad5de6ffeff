package knowledge

// profileSchema is the JSON Schema every business profile must satisfy.
// It mirrors the document produced by the profile-convert tool.
const profileSchema = `{
  "type": "object",
  "required": ["name", "contact", "specializations", "services", "staff", "policies", "additional"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "location": {"type": "string"},
    "contact": {
      "type": "object",
      "required": ["phone", "website"],
      "properties": {
        "phone": {"type": "string"},
        "website": {"type": "string"}
      }
    },
    "specializations": {
      "type": "array",
      "items": {"type": "string"}
    },
    "services": {
      "type": "object",
      "required": ["general_dermatology", "skin_cancer", "aesthetic", "specialized", "allergology"],
      "additionalProperties": {
        "anyOf": [
          {"type": "string"},
          {"type": "object", "additionalProperties": {"type": "string"}}
        ]
      }
    },
    "staff": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "specialties"],
        "properties": {
          "name": {"type": "string"},
          "specialties": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "policies": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "additional": {"type": "string"}
  }
}`

// Schema returns the profile JSON Schema as a string, for external tooling.
func Schema() string {
	return profileSchema
}
