package fixtures

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resultsPage(rows int, rider string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="page-content"><div class="page-title"><h1>Stage 1</h1></div>`)
	b.WriteString(`<table class="results"><thead><tr><th>Rnk</th><th>Rider</th></tr></thead><tbody>`)
	for i := 0; i < rows; i++ {
		b.WriteString(`<tr><td>1</td><td><span class="flag si"></span><a href="rider/x">` + rider + `</a></td></tr>`)
	}
	b.WriteString(`</tbody></table></div></body></html>`)
	return b.String()
}

func listPage() string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="list"><li><div class="a">x</div></li><li><div class="b">y</div></li></ul>`)
	b.WriteString(`<form><select name="date"><option>1</option></select></form><p><em>z</em><img src="i.png"/></p></body></html>`)
	return b.String()
}

func TestLayoutFingerprintIgnoresText(t *testing.T) {
	a := LayoutFingerprint(resultsPage(20, "POGAČAR Tadej"))
	b := LayoutFingerprint(resultsPage(20, "VINGEGAARD Jonas"))
	assert.Equal(t, a, b)
	assert.False(t, Drifted(resultsPage(20, "A"), resultsPage(20, "B")))
}

func TestLayoutFingerprintDetectsDrift(t *testing.T) {
	d := LayoutDistance(LayoutFingerprint(resultsPage(20, "A")), LayoutFingerprint(listPage()))
	assert.Greater(t, d, 0)
}

func TestLayoutFingerprintEmpty(t *testing.T) {
	assert.Equal(t, uint64(0), LayoutFingerprint(""))
	assert.Equal(t, 0, LayoutDistance(5, 5))
	assert.Equal(t, 64, LayoutDistance(0, ^uint64(0)))
}
