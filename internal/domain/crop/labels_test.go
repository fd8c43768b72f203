package crop

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCropFromIndex(t *testing.T) {
	c, err := CropFromIndex(0)
	require.NoError(t, err)
	require.Equal(t, "rice", c.String())

	c, err = CropFromIndex(21)
	require.NoError(t, err)
	require.Equal(t, "coffee", c.String())
	require.Equal(t, Coffee, c)

	for _, idx := range []int{-1, 22, 1000} {
		_, err := CropFromIndex(idx)
		var idxErr *IndexError
		require.ErrorAs(t, err, &idxErr)
		require.Equal(t, idx, idxErr.Index)
	}
}

func TestLabelTableSize(t *testing.T) {
	require.Equal(t, 22, LabelCount)
	require.Len(t, Crops(), 22)
	require.False(t, Crop(22).Valid())
	require.Equal(t, "crop(22)", Crop(22).String())
}

func TestParseCropRoundTrip(t *testing.T) {
	for _, c := range Crops() {
		parsed, ok := ParseCrop(c.String())
		require.True(t, ok)
		require.Equal(t, c, parsed)
	}
	parsed, ok := ParseCrop(" KidneyBeans ")
	require.True(t, ok)
	require.Equal(t, KidneyBeans, parsed)

	_, ok = ParseCrop("wheat")
	require.False(t, ok)
}

func TestCropJSON(t *testing.T) {
	data, err := json.Marshal(Mango)
	require.NoError(t, err)
	require.Equal(t, `"mango"`, string(data))

	var c Crop
	require.NoError(t, json.Unmarshal([]byte(`"jute"`), &c))
	require.Equal(t, Jute, c)
	require.Error(t, json.Unmarshal([]byte(`"wheat"`), &c))

	_, err = json.Marshal(Crop(40))
	require.Error(t, err)
}
