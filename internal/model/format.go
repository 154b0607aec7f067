package model

// Quality is a canonical quality label such as "1080p"
type Quality string

const (
	Quality2160p Quality = "2160p"
	Quality1440p Quality = "1440p"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
	Quality240p  Quality = "240p"
	Quality144p  Quality = "144p"

	// QualityBest and QualityWorst are request tokens, not map keys
	QualityBest  Quality = "best"
	QualityWorst Quality = "worst"
)

// QualityPreference lists labels from highest to lowest resolution
var QualityPreference = []Quality{
	Quality2160p,
	Quality1440p,
	Quality1080p,
	Quality720p,
	Quality480p,
	Quality360p,
	Quality240p,
	Quality144p,
}

// heightLabels maps the exact heights that get a label. Other heights are dropped.
var heightLabels = map[int]Quality{
	2160: Quality2160p,
	1440: Quality1440p,
	1080: Quality1080p,
	720:  Quality720p,
	480:  Quality480p,
	360:  Quality360p,
}

// QualityForHeight returns the canonical label for an exact height
func QualityForHeight(height int) (Quality, bool) {
	q, ok := heightLabels[height]
	return q, ok
}

// String returns the string representation of Quality
func (q Quality) String() string {
	return string(q)
}

// FormatRef points at one engine format
type FormatRef struct {
	ID   string     `json:"id"`
	Kind FormatKind `json:"kind"`
}

// QualityMap maps quality labels to the format chosen for them
type QualityMap map[Quality]FormatRef

// Labels returns the present labels in preference order
func (m QualityMap) Labels() []string {
	labels := make([]string, 0, len(m))
	for _, q := range QualityPreference {
		if _, ok := m[q]; ok {
			labels = append(labels, q.String())
		}
	}
	return labels
}
