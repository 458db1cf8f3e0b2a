package billing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transportbilling/models"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultRates(), Route{Origin: "kolhapur", Destination: "solapur"})
}

func TestClassify_ReworkRoute(t *testing.T) {
	c := newTestClassifier()
	variants := [][2]string{
		{"kolhapur", "solapur"},
		{"Kolhapur", "Solapur"},
		{"  KOLHAPUR ", "solapur  "},
	}
	for _, v := range variants {
		rec := &models.LRRecord{ID: "LR/1", VehicleType: "TRUCK", Origin: v[0], Destination: v[1], Consignee: "A / B / C"}
		cl := c.Classify(rec)
		assert.Equal(t, Rework, cl.Category, "route %q -> %q", v[0], v[1])
		assert.Equal(t, int64(12484), cl.BaseAmount)
		assert.Equal(t, int64(9987), cl.EffectiveAmount)
		assert.Equal(t, int64(2000), cl.DriverPayment)
		assert.Nil(t, cl.Additional)
		assert.False(t, cl.IsAdditional())
	}
}

func TestClassify_ReverseRouteIsNotRework(t *testing.T) {
	cl := newTestClassifier().Classify(&models.LRRecord{VehicleType: "TRUCK", Origin: "solapur", Destination: "kolhapur"})
	assert.Equal(t, Regular, cl.Category)
	assert.Equal(t, int64(12484), cl.EffectiveAmount)
}

func TestClassify_AdditionalKeepsRegularAmount(t *testing.T) {
	rec := &models.LRRecord{VehicleType: "truck", Origin: "Pune", Destination: "Mumbai", Consignee: "Alpha / Beta/ Gamma"}
	cl := newTestClassifier().Classify(rec)

	assert.Equal(t, Regular, cl.Category)
	assert.Equal(t, int64(12484), cl.EffectiveAmount)
	assert.Equal(t, int64(2500), cl.DriverPayment)
	assert.Equal(t, 3, cl.DestinationCount)
	require.NotNil(t, cl.Additional)
	assert.True(t, cl.IsAdditional())
	assert.Equal(t, int64(1500*2), cl.Additional.Amount)
	assert.Equal(t, int64(1500), cl.Additional.Rate)
}

func TestClassify_SingleDestinationHasNoAdditional(t *testing.T) {
	rec := &models.LRRecord{VehicleType: "TEMPO", Origin: "Pune", Destination: "Mumbai", Consignee: " Alpha / "}
	cl := newTestClassifier().Classify(rec)
	assert.Equal(t, 1, cl.DestinationCount)
	assert.Nil(t, cl.Additional)
	assert.Equal(t, int64(7420), cl.EffectiveAmount)
}

func TestClassify_DestinationFallback(t *testing.T) {
	rec := &models.LRRecord{VehicleType: "TEMPO", Origin: "Pune", Destination: "Mumbai/Thane"}
	cl := newTestClassifier().Classify(rec)
	assert.Equal(t, 2, cl.DestinationCount)
	require.NotNil(t, cl.Additional)
	assert.Equal(t, int64(800), cl.Additional.Amount)
}

func TestClassify_EmptyVehicleTypeFlaggedForReview(t *testing.T) {
	rec := &models.LRRecord{Origin: "Pune", Destination: "Mumbai", Consignee: "A/B"}
	cl := newTestClassifier().Classify(rec)
	assert.True(t, cl.NeedsReview)
	assert.NotEmpty(t, cl.ReviewReason)
	assert.Zero(t, cl.EffectiveAmount)
	assert.Nil(t, cl.Additional)
}

func TestClassify_UnknownVehicleTypeUsesLowestTier(t *testing.T) {
	cl := newTestClassifier().Classify(&models.LRRecord{VehicleType: "BULLOCK CART", Origin: "a", Destination: "b"})
	assert.Equal(t, "PICKUP", cl.VehicleType)
	assert.Equal(t, int64(4250), cl.EffectiveAmount)
	assert.False(t, cl.NeedsReview)
}

func TestClassify_NilRecord(t *testing.T) {
	cl := newTestClassifier().Classify(nil)
	assert.True(t, cl.NeedsReview)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitList(" a // b c /"))
	assert.Empty(t, SplitList("  / "))
}

func TestLoadRates(t *testing.T) {
	rates, err := LoadRates("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRates(), rates)

	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vehicle_types:
  truck:
    base: 10000
    driver: 2000
    rework_driver: 1500
    per_destination: 1000
`), 0o644))

	rates, err = LoadRates(path)
	require.NoError(t, err)
	assert.Equal(t, Rate{Base: 10000, Driver: 2000, ReworkDriver: 1500, PerDestination: 1000}, rates["TRUCK"])
	assert.Equal(t, []string{"TRUCK"}, rates.VehicleTypes())

	_, err = LoadRates(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
