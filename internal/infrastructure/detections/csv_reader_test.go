package detections

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestParse_Detections(t *testing.T) {
	content := `filename,detected,rho,theta,time,image_height
a.JPG,True,540.5,1.25,0.012,1080
b.JPG,False,,,0.010,1080
c.JPG,true,abc,1,0.01,1080
d.JPG,maybe,1,1,0.01,1080
e.JPG,1,300,-2,,720`

	detections, err := Parse(context.Background(), strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, detections, 3)

	a := detections[0]
	require.Equal(t, "a.JPG", a.Filename)
	require.True(t, a.Detected)
	require.Equal(t, 540.5, a.Rho)
	require.Equal(t, 1.25, a.Theta)
	require.Equal(t, 1080, a.ImageHeight)
	elapsed, ok := a.Elapsed.Value()
	require.True(t, ok)
	require.Equal(t, 0.012, elapsed)

	b := detections[1]
	require.False(t, b.Detected)
	require.True(t, b.Elapsed.IsDefined())

	e := detections[2]
	require.Equal(t, "e.JPG", e.Filename)
	require.Equal(t, -2.0, e.Theta)
	require.False(t, e.Elapsed.IsDefined())
	require.Equal(t, 720, e.ImageHeight)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader("name,rho\na,1\n"))
	require.Error(t, err)
}

func TestParse_HeaderOnly(t *testing.T) {
	detections, err := Parse(context.Background(), strings.NewReader("filename,detected\n"))
	require.NoError(t, err)
	require.Empty(t, detections)
}

func TestCSVReader_Detections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.csv")
	content := "Filename, Detected, Rho, Theta, Time, Image_Height\nx.JPG, True, 10, 0, 0.5, 100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	detections, err := NewCSVReader(path).Detections(context.Background())
	require.NoError(t, err)
	require.Len(t, detections, 1)
	require.Equal(t, "x.JPG", detections[0].Filename)
	require.Equal(t, 100, detections[0].ImageHeight)
}

func TestParse_SkipsNonFiniteValues(t *testing.T) {
	content := `filename,detected,rho,theta,time,image_height
a.JPG,True,inf,0,0.01,400
b.JPG,True,50,NaN,0.01,400
c.JPG,True,50,0,+Inf,400
d.JPG,True,50,0,0.01,400`

	detections, err := Parse(context.Background(), strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, detections, 1)
	require.Equal(t, "d.JPG", detections[0].Filename)
}

func TestParse_ReadErrorStops(t *testing.T) {
	errDisk := errors.New("disk failure")
	src := io.MultiReader(
		strings.NewReader("filename,detected\na.JPG,True\n"),
		iotest.ErrReader(errDisk),
	)

	_, err := Parse(context.Background(), src)
	require.ErrorIs(t, err, errDisk)
}

func TestParse_MalformedQuoteSkipped(t *testing.T) {
	content := "filename,detected\nbad\"x.JPG,True\nok.JPG,False\n"

	detections, err := Parse(context.Background(), strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, detections, 1)
	require.Equal(t, "ok.JPG", detections[0].Filename)
}
