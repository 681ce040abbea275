package bikeshare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/bikeshare"
)

func TestCatalog(t *testing.T) {
	for city, file := range map[string]string{
		"chicago":       "chicago.csv",
		"Chicago":       "chicago.csv",
		"NEW YORK CITY": "new_york_city.csv",
		"washington":    "washington.csv",
	} {
		f, err := bikeshare.DefaultCatalog.File(city)
		require.NoError(t, err)
		assert.Equal(t, file, f)
	}

	_, err := bikeshare.DefaultCatalog.File("boston")
	assert.ErrorIs(t, err, bikeshare.ErrUnknownCity)

	assert.Equal(t, []string{"chicago", "new york city", "washington"}, bikeshare.DefaultCatalog.Cities())
	assert.Equal(t, bikeshare.Choices{"chicago", "new york city", "washington"}, bikeshare.CityChoices)
}
