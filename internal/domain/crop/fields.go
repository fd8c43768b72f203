package crop

// Key identifies one of the seven soil/climate inputs.
type Key string

const (
	KeyNitrogen    Key = "N"
	KeyPhosphorous Key = "P"
	KeyPotassium   Key = "K"
	KeyTemperature Key = "temperature"
	KeyHumidity    Key = "humidity"
	KeyPH          Key = "pH"
	KeyRainfall    Key = "rainfall"
)

// FeatureCount is the length of the vector the prediction service expects.
const FeatureCount = 7

// FieldSpec describes a single form input and its numeric constraints.
type FieldSpec struct {
	Key         Key      `json:"key"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder"`
	Step        string   `json:"step"`
	Required    bool     `json:"required"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
}

// fieldSpecs is ordered as the prediction service reads its features.
var fieldSpecs = [FeatureCount]FieldSpec{
	{Key: KeyNitrogen, Label: "Nitrogen (N) content", Placeholder: "50", Step: "0.01", Required: true, Min: bound(0)},
	{Key: KeyPhosphorous, Label: "Phosphorous (P) content", Placeholder: "50", Step: "0.01", Required: true, Min: bound(0)},
	{Key: KeyPotassium, Label: "Potassium (K) content", Placeholder: "50", Step: "0.01", Required: true, Min: bound(0)},
	{Key: KeyTemperature, Label: "Temperature (°C)", Placeholder: "25", Step: "0.1", Required: true},
	{Key: KeyHumidity, Label: "Humidity (%)", Placeholder: "70", Step: "0.1", Required: true, Min: bound(0), Max: bound(100)},
	{Key: KeyPH, Label: "pH value", Placeholder: "6.5", Step: "0.1", Required: true, Min: bound(0), Max: bound(14)},
	{Key: KeyRainfall, Label: "Rainfall (mm)", Placeholder: "200", Step: "0.1", Required: true, Min: bound(0)},
}

// Fields returns the form schema in feature order. The slice is a copy.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs[:])
	return out
}

// LookupField returns the spec registered for key.
func LookupField(key Key) (FieldSpec, bool) {
	for _, spec := range fieldSpecs {
		if spec.Key == key {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Keys lists the field keys in feature order.
func Keys() []Key {
	keys := make([]Key, 0, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		keys = append(keys, spec.Key)
	}
	return keys
}

func bound(v float64) *float64 {
	return &v
}
