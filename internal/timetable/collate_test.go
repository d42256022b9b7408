package timetable

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareJapaneseCollated(t *testing.T) {
	assert.Negative(t, CompareJapaneseCollated("あべ", "いとう"))
	assert.Positive(t, CompareJapaneseCollated("さとう", "いとう"))
	assert.Zero(t, CompareJapaneseCollated("いとう", "いとう"))
	assert.Negative(t, CompareJapaneseCollated("", "1年"))
	assert.Negative(t, CompareJapaneseCollated("1年", "2年"))
}

func TestCompareJapaneseCollatedIgnoresKanaScriptAtPrimaryLevel(t *testing.T) {
	// Code point order puts every katakana after every hiragana.
	assert.Positive(t, strings.Compare("イトウ", "うえだ"))
	assert.Negative(t, CompareJapaneseCollated("イトウ", "うえだ"))
}

func TestCompareJapaneseCollatedConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Negative(t, CompareJapaneseCollated("あべ", "さとう"))
			}
		}()
	}
	wg.Wait()
}
