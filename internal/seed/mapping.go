// internal/seed/mapping.go
package seed

// DefaultIndex is the index the sample corpus is loaded into.
const DefaultIndex = "knowledge"

// indexMapping matches the corpus fields: analyzed text for title and
// content, keywords for everything used in filters and facets.
const indexMapping = `{
  "mappings": {
    "properties": {
      "title": {
        "type": "text",
        "analyzer": "standard",
        "fields": {
          "keyword": {
            "type": "keyword"
          }
        }
      },
      "content": {
        "type": "text",
        "analyzer": "standard"
      },
      "category": {
        "type": "keyword"
      },
      "tags": {
        "type": "keyword"
      },
      "difficulty": {
        "type": "keyword"
      },
      "language": {
        "type": "keyword"
      }
    }
  },
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  }
}`
