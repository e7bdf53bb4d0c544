package config

// jsonSchema is the declarative description of the config schema, kept in
// sync with Validate by the round-trip test against Template.
const jsonSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "issuewatch configuration",
  "type": "object",
  "required": ["baseUrl", "credential"],
  "additionalProperties": false,
  "properties": {
    "baseUrl": {
      "type": "string",
      "pattern": "^https://",
      "description": "Absolute URL of the issue tracker API"
    },
    "credential": {
      "type": "string",
      "minLength": 8,
      "maxLength": 128,
      "description": "API token used to authenticate against the tracker"
    },
    "logLevel": {
      "type": "string",
      "enum": ["debug", "info", "warn", "error"],
      "default": "info"
    },
    "timeout": {
      "type": "integer",
      "minimum": 1000,
      "maximum": 300000,
      "description": "Request timeout in milliseconds"
    },
    "environment": {
      "type": "string",
      "description": "Deployment environment name"
    },
    "rateLimit": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "maxRequests": {
          "type": "integer",
          "minimum": 1,
          "maximum": 10000,
          "default": 1000
        },
        "windowMs": {
          "type": "integer",
          "minimum": 1000,
          "maximum": 3600000,
          "default": 60000
        }
      }
    }
  }
}`

// JSONSchema returns the JSON Schema document describing the config format,
// for external tooling.
func JSONSchema() []byte {
	return []byte(jsonSchema)
}

// template is a schema-valid example configuration.
const template = `# issuewatch configuration
# Validate with: issuewatch config validate --config <file>

# Absolute URL of the issue tracker API (https required).
baseUrl: https://tracker.example.com

# API token for the tracker (8-128 characters).
credential: replace-with-your-api-token

# Log verbosity: debug, info, warn, error.
logLevel: info

# Request timeout in milliseconds (1000-300000).
timeout: 30000

# Fixed-window admission limits.
rateLimit:
  maxRequests: 1000
  windowMs: 60000
`

// Template returns an example configuration document that passes Validate.
func Template() []byte {
	return []byte(template)
}
