// Package output serializes extraction results.
package output

import (
	"encoding/json"
	"os"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// FeedbackFile is the name of the leftmost-region list in a score directory.
const FeedbackFile = "feedback.json"

// ToJSON serializes v, optionally indented.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// FeedbackPairs converts keys into the [partId, measureId] pairs stored in
// feedback.json.
func FeedbackPairs(keys []models.MeasureKey) [][2]string {
	pairs := make([][2]string, len(keys))
	for i, k := range keys {
		pairs[i] = [2]string{k.PartID, k.MeasureID}
	}
	return pairs
}

// WriteFeedback writes the leftmost keys of a score to path.
func WriteFeedback(path string, keys []models.MeasureKey) error {
	data, err := json.Marshal(FeedbackPairs(keys))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFeedback reads a feedback.json file back into keys.
func ReadFeedback(path string) ([]models.MeasureKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pairs [][2]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}

	keys := make([]models.MeasureKey, len(pairs))
	for i, p := range pairs {
		keys[i] = models.MeasureKey{PartID: p[0], MeasureID: p[1]}
	}
	return keys, nil
}
