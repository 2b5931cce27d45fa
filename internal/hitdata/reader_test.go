package hitdata

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTSV = "hit_time_gmt\tip\tuser_agent\treferrer\tevent_list\tproduct_list\n" +
	"1254033280\t44.12.96.2\tMozilla/5.0\thttps://www.google.com/search?q=Ipod\t\t\n" +
	"\n" +
	"1254033379\t44.12.96.2\tMozilla/5.0\thttp://www.esshopzilla.com/checkout/\t1\tElectronics;Ipod;1;290;\n"

func TestReader_HeaderAndRows(t *testing.T) {
	r, err := NewReader(strings.NewReader(sampleTSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"hit_time_gmt", "ip", "user_agent", "referrer", "event_list", "product_list"}, r.Fields())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "44.12.96.2", row.Field("ip"))
	assert.Equal(t, "https://www.google.com/search?q=Ipod", row.Field("referrer"))
	assert.Equal(t, "", row.Field("event_list"))

	// Blank line is skipped, next row is the purchase.
	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", row.Field("event_list"))
	assert.Equal(t, "Electronics;Ipod;1;290;", row.Field("product_list"))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_ShortRowsPadded(t *testing.T) {
	r, err := NewReader(strings.NewReader("ip\tuser_agent\treferrer\n1.2.3.4\tua\n"))
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", row.Field("ip"))
	assert.Equal(t, "", row.Field("referrer"))
}

func TestReader_EmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hits.tsv")
	require.NoError(t, os.WriteFile(path, []byte(sampleTSV), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Contains(t, r.Fields(), "product_list")

	var rows int
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows++
	}
	assert.Equal(t, 2, rows)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}
