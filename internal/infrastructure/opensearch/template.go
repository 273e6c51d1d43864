// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

const queryCourseSource = `{
  "from": {{ .From }},
  "size": {{ .Size }},
  "track_total_hits": true,
  "query": {
    "bool": {
      "must": [
        {{- if .SearchString }}
        {
          "multi_match": {
            "query": {{ .SearchString | quote }},
            "operator": "and",
            "fields": [
              "data.content.display_name^3",
              "data.content.overview",
              "data.org^2",
              "data.number^2"
            ]
          }
        }
        {{- else }}
        {
          "match_all": {}
        }
        {{- end }}
      ],
      "filter": [
        {{- $first := true -}}
        {{- if .PublicOnly }}
        {{- $first = false }}
        {
          "term": {"public": true}
        }
        {{- end }}
        {{- range .Filters }}
        {{- if $first -}}
        {{- $first = false -}}
        {{- else }},
        {{- end }}
        {
          "terms": {
            {{ .Field | quote }}: {{ .Values | json }}
          }
        }
        {{- end }}
      ]
    }
  },
  "aggs": {
    {{- range $i, $facet := .Facets }}
    {{- if $i }},{{ end }}
    {{ $facet.Name | quote }}: {
      "terms": {
        "field": {{ $facet.Field | quote }},
        "size": {{ $.FacetSize }}
      }
    }
    {{- end }}
  },
  "sort": [
    "_score",
    {"_id": "asc"}
  ]
}`
