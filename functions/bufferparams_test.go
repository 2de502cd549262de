package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martin-augment/sedona-db/geosbuffer"
)

func TestParseBufferParams_Empty(t *testing.T) {
	params, err := parseBufferParams("")
	require.NoError(t, err)
	assert.Equal(t, geosbuffer.DefaultBufferParams(), params)
}

func TestParseBufferParams_AllKeys(t *testing.T) {
	params, err := parseBufferParams("endcap=square join=mitre mitre_limit=3.5 quad_segs=4 side=left")
	require.NoError(t, err)
	assert.Equal(t, geosbuffer.CapSquare, params.EndCapStyle)
	assert.Equal(t, geosbuffer.JoinMitre, params.JoinStyle)
	assert.Equal(t, 3.5, params.MitreLimit)
	assert.Equal(t, 4, params.QuadrantSegments)
	assert.Equal(t, geosbuffer.SideLeft, params.Side)
}

func TestParseBufferParams_CaseInsensitiveKeys(t *testing.T) {
	params, err := parseBufferParams("ENDCAP=Flat JOIN=Bevel")
	require.NoError(t, err)
	assert.Equal(t, geosbuffer.CapFlat, params.EndCapStyle)
	assert.Equal(t, geosbuffer.JoinBevel, params.JoinStyle)
}

func TestParseBufferParams_LastValueWins(t *testing.T) {
	params, err := parseBufferParams("endcap=round endcap=square")
	require.NoError(t, err)
	assert.Equal(t, geosbuffer.CapSquare, params.EndCapStyle)
}

func TestParseBufferParams_ButtAliasesFlat(t *testing.T) {
	params, err := parseBufferParams("endcap=butt")
	require.NoError(t, err)
	assert.Equal(t, geosbuffer.CapFlat, params.EndCapStyle)
}

func TestParseBufferParams_MiterAliasesMitre(t *testing.T) {
	params, err := parseBufferParams("join=miter")
	require.NoError(t, err)
	assert.Equal(t, geosbuffer.JoinMitre, params.JoinStyle)
}

func TestParseBufferParams_BareTokenIsError(t *testing.T) {
	_, err := parseBufferParams("round")
	assert.ErrorContains(t, err, "Missing value for buffer parameter: round")
}

func TestParseBufferParams_BareTokenAmongOthersIsError(t *testing.T) {
	_, err := parseBufferParams("endcap=round bare_param join=mitre")
	assert.ErrorContains(t, err, "Missing value for buffer parameter: bare_param")
}

func TestParseBufferParams_MiterLimitAliasesMitreLimit(t *testing.T) {
	params, err := parseBufferParams("miter_limit=2.0")
	require.NoError(t, err)
	assert.Equal(t, 2.0, params.MitreLimit)
}

func TestParseBufferParams_QuadrantSegmentsAliasesQuadSegs(t *testing.T) {
	params, err := parseBufferParams("quadrant_segments=6")
	require.NoError(t, err)
	assert.Equal(t, 6, params.QuadrantSegments)
}

func TestParseBufferParams_UnknownKeyIsError(t *testing.T) {
	_, err := parseBufferParams("nonsense=1")
	assert.Error(t, err)
}

func TestParseBufferParams_InvalidEndcapIsError(t *testing.T) {
	_, err := parseBufferParams("endcap=pointy")
	assert.ErrorContains(t, err, "Invalid endcap style: 'pointy'")
}

func TestParseBufferParams_InvalidJoinIsError(t *testing.T) {
	_, err := parseBufferParams("join=jagged")
	assert.ErrorContains(t, err, "Invalid join style: 'jagged'")
}

func TestParseBufferParams_InvalidSideIsError(t *testing.T) {
	_, err := parseBufferParams("side=up")
	assert.ErrorContains(t, err, "Invalid side: 'up'")
}

func TestParseBufferParams_InvalidMitreLimitIsError(t *testing.T) {
	_, err := parseBufferParams("mitre_limit=abc")
	assert.ErrorContains(t, err, "Invalid mitre_limit value: 'abc'")
}

func TestParseBufferParams_InvalidQuadSegsIsError(t *testing.T) {
	_, err := parseBufferParams("quad_segs=abc")
	assert.ErrorContains(t, err, "Invalid quad_segs value: 'abc'")
}

func TestParseBufferParams_FirstFailureAborts(t *testing.T) {
	_, err := parseBufferParams("endcap=square badtoken join=mitre")
	assert.Error(t, err)
}
