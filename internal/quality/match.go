// Package quality picks a format from a QualityMap for a requested label.
package quality

import "github.com/ytget/yt-downloader-api/internal/model"

// Match resolves requested against available. An exact key wins; "best" and
// "worst" walk model.QualityPreference from the top or the bottom.
func Match(requested string, available model.QualityMap) (model.Quality, model.FormatRef, bool) {
	label := model.Quality(requested)
	if ref, ok := available[label]; ok {
		return label, ref, true
	}

	switch label {
	case model.QualityBest:
		for _, q := range model.QualityPreference {
			if ref, ok := available[q]; ok {
				return q, ref, true
			}
		}
	case model.QualityWorst:
		for i := len(model.QualityPreference) - 1; i >= 0; i-- {
			q := model.QualityPreference[i]
			if ref, ok := available[q]; ok {
				return q, ref, true
			}
		}
	}
	return "", model.FormatRef{}, false
}
