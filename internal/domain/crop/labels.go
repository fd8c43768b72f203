package crop

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Crop is a label produced by the prediction service. Its numeric value is the
// index the model emits, so the order below must match the model encoding.
type Crop uint8

const (
	Rice Crop = iota
	Maize
	Chickpea
	KidneyBeans
	PigeonPeas
	MothBeans
	MungBean
	BlackGram
	Lentil
	Pomegranate
	Banana
	Mango
	Grapes
	Watermelon
	Muskmelon
	Apple
	Orange
	Papaya
	Coconut
	Cotton
	Jute
	Coffee

	cropCount
)

var cropNames = [cropCount]string{
	"rice", "maize", "chickpea", "kidneybeans", "pigeonpeas",
	"mothbeans", "mungbean", "blackgram", "lentil", "pomegranate",
	"banana", "mango", "grapes", "watermelon", "muskmelon",
	"apple", "orange", "papaya", "coconut", "cotton",
	"jute", "coffee",
}

// LabelCount is the number of crops the model can predict.
const LabelCount = int(cropCount)

// IndexError reports a prediction index outside the label table.
type IndexError struct {
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("prediction index %d outside label table [0,%d)", e.Index, LabelCount)
}

// CropFromIndex resolves a model output index.
func CropFromIndex(index int) (Crop, error) {
	if index < 0 || index >= LabelCount {
		return 0, &IndexError{Index: index}
	}
	return Crop(index), nil
}

// ParseCrop maps a label back to its Crop.
func ParseCrop(name string) (Crop, bool) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range cropNames {
		if candidate == clean {
			return Crop(i), true
		}
	}
	return 0, false
}

// Crops returns every label in model index order.
func Crops() []Crop {
	out := make([]Crop, 0, LabelCount)
	for i := 0; i < LabelCount; i++ {
		out = append(out, Crop(i))
	}
	return out
}

// Valid reports whether c is inside the label table.
func (c Crop) Valid() bool {
	return int(c) < LabelCount
}

// Index returns the model index of c.
func (c Crop) Index() int {
	return int(c)
}

func (c Crop) String() string {
	if !c.Valid() {
		return fmt.Sprintf("crop(%d)", uint8(c))
	}
	return cropNames[c]
}

// MarshalJSON encodes the crop as its label.
func (c Crop) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, &IndexError{Index: int(c)}
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a crop label.
func (c *Crop) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseCrop(name)
	if !ok {
		return fmt.Errorf("unknown crop %q", name)
	}
	*c = parsed
	return nil
}
