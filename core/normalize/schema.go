package normalize

// Coercible scalars (string, number, boolean) are accepted wherever a string
// is expected; null means "missing". Anything else is reported as an issue
// and defaulted.

const announcementsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "text": {"type": ["string", "number", "boolean", "null"]},
    "texts": {"type": ["array", "null"], "items": {"$ref": "#/$defs/text"}},
    "link": {
      "type": ["object", "null"],
      "properties": {
        "label": {"$ref": "#/$defs/text"},
        "href": {"$ref": "#/$defs/text"},
        "url": {"$ref": "#/$defs/text"}
      }
    }
  },
  "type": "array",
  "items": {
    "type": ["object", "null"],
    "properties": {
      "id": {"$ref": "#/$defs/text"},
      "date": {"$ref": "#/$defs/text"},
      "title": {"$ref": "#/$defs/text"},
      "pinned": {"type": ["boolean", "null"]},
      "tags": {"$ref": "#/$defs/texts"},
      "body": {"$ref": "#/$defs/texts"},
      "links": {"type": ["array", "null"], "items": {"$ref": "#/$defs/link"}}
    }
  }
}`

const policySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "text": {"type": ["string", "number", "boolean", "null"]},
    "texts": {"type": ["array", "null"], "items": {"$ref": "#/$defs/text"}}
  },
  "type": "object",
  "properties": {
    "version": {"$ref": "#/$defs/text"},
    "effectiveDate": {"$ref": "#/$defs/text"},
    "title": {"$ref": "#/$defs/text"},
    "intro": {"$ref": "#/$defs/texts"},
    "sections": {
      "type": ["array", "null"],
      "items": {
        "type": ["object", "null"],
        "properties": {
          "heading": {"$ref": "#/$defs/text"},
          "paragraphs": {"$ref": "#/$defs/texts"},
          "bullets": {"$ref": "#/$defs/texts"},
          "notes": {"$ref": "#/$defs/texts"}
        }
      }
    },
    "contact": {
      "type": ["object", "null"],
      "properties": {
        "label": {"$ref": "#/$defs/text"},
        "mailto": {"$ref": "#/$defs/text"}
      }
    }
  }
}`
