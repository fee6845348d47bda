package phrases_test

import (
	"fmt"
	"testing"

	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/internal/domain/phrases"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTokens(t *testing.T) {
	Convey("Given mixed text", t, func() {
		Convey("Then short, numeric and accented words are skipped", func() {
			So(phrases.Tokens("Build APIs in Go, web3 and café_bar on k8s!"), ShouldResemble,
				[]string{"build", "apis", "and"})
		})

		Convey("Then punctuation separates words", func() {
			So(phrases.Tokens("node.js/react-native"), ShouldResemble, []string{"node", "react", "native"})
		})

		Convey("Then a dotted capital I splits the word it starts", func() {
			So(phrases.Tokens("ćİaXaKcaZ"), ShouldResemble, []string{"axakcaz"})
			So(phrases.Tokens("İstanbul offices"), ShouldResemble, []string{"stanbul", "offices"})
		})

		Convey("Then empty text has no tokens", func() {
			So(phrases.Tokens(""), ShouldBeEmpty)
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Given descriptions with repeated pairs", t, func() {
		records := []model.JobRecord{
			{Description: "Machine learning with Python"},
			{Description: ""},
			{Description: "machine learning and data pipelines"},
		}

		got := phrases.Extract(records)

		Convey("Then adjacent pairs are returned once in first-seen order", func() {
			So(got, ShouldResemble, []string{
				"machine learning",
				"learning with",
				"with python",
				"learning and",
				"and data",
				"data pipelines",
			})
		})
	})

	Convey("Given empty or single-token input", t, func() {
		So(phrases.Extract(nil), ShouldBeEmpty)
		So(phrases.Extract([]model.JobRecord{{Description: "kubernetes"}}), ShouldBeEmpty)
		So(phrases.Extract([]model.JobRecord{{Description: "a b c d"}}), ShouldBeEmpty)
	})

	Convey("Given more than five hundred distinct pairs", t, func() {
		var words string
		for i := 0; i < 700; i++ {
			words += fmt.Sprintf("w%s ", letters(i))
		}
		got := phrases.Extract([]model.JobRecord{{Description: words}})

		Convey("Then only the first five hundred are kept", func() {
			So(got, ShouldHaveLength, phrases.MaxPhrases)
			So(got[0], ShouldEqual, "waaa waab")
		})
	})
}

// letters encodes i as a three letter suffix: 0 -> "aaa", 1 -> "aab".
func letters(i int) string {
	b := []byte{'a', 'a', 'a'}
	for p := 2; p >= 0; p-- {
		b[p] = byte('a' + i%26)
		i /= 26
	}
	return string(b)
}
