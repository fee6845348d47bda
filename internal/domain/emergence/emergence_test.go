package emergence_test

import (
	"fmt"
	"testing"

	"github.com/okian/skillpulse/internal/domain/emergence"
	"github.com/okian/skillpulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFallback(t *testing.T) {
	Convey("The fallback list is fixed", t, func() {
		got := emergence.Fallback()
		So(got, ShouldResemble, []model.EmergingSkill{
			{Skill: "Generative AI", ConfidenceScore: 0.85, Frequency: 150, Trend: "High Growth"},
			{Skill: "Large Language Models", ConfidenceScore: 0.80, Frequency: 120, Trend: "High Growth"},
			{Skill: "MLOps", ConfidenceScore: 0.75, Frequency: 100, Trend: "Growing"},
			{Skill: "Cloud Native Development", ConfidenceScore: 0.70, Frequency: 95, Trend: "Growing"},
			{Skill: "Edge Computing", ConfidenceScore: 0.65, Frequency: 80, Trend: "Emerging"},
			{Skill: "Serverless Architecture", ConfidenceScore: 0.60, Frequency: 75, Trend: "Emerging"},
		})

		Convey("And callers cannot mutate it", func() {
			got[0].Skill = "changed"
			So(emergence.Fallback()[0].Skill, ShouldEqual, "Generative AI")
		})
	})
}

func TestTrend(t *testing.T) {
	Convey("Trend thresholds are strict", t, func() {
		So(emergence.Trend(0.71), ShouldEqual, model.TrendHighGrowth)
		So(emergence.Trend(0.7), ShouldEqual, model.TrendGrowing)
		So(emergence.Trend(0.41), ShouldEqual, model.TrendGrowing)
		So(emergence.Trend(0.4), ShouldEqual, model.TrendEmerging)
		So(emergence.Trend(0), ShouldEqual, model.TrendEmerging)
	})
}

func TestRepresentative(t *testing.T) {
	Convey("The most frequent member wins and ties keep the first seen", t, func() {
		So(emergence.Representative([]string{"a b", "c d", "c d"}), ShouldEqual, "c d")
		So(emergence.Representative([]string{"a b", "c d", "c d", "a b"}), ShouldEqual, "a b")
		So(emergence.Representative([]string{"x y"}), ShouldEqual, "x y")
	})
}

func TestScore(t *testing.T) {
	Convey("Given four records and two clusters", t, func() {
		records := []model.JobRecord{
			{Description: "old posting about cloud native"},
			{Description: "old posting"},
			{Description: "Cloud Native platform team"},
			{Description: ""},
		}
		clusters := []model.PhraseCluster{
			{ID: 0, Members: []string{"data lake", "data mesh", "data lake ops"}},
			{ID: 1, Members: []string{"cloud native", "cloud platform", "cloud team", "cloud ops", "cloud cost"}},
		}

		got := emergence.Score(clusters, records)

		Convey("Then confidence mixes cluster share and recent mentions", func() {
			// cloud: 5/8*2 + 1/2*3 = 2.75 -> 1; data: 3/8*2 + 0 = 0.75
			So(got, ShouldHaveLength, 2)
			So(got[0], ShouldResemble, model.EmergingSkill{Skill: "Cloud Native", ConfidenceScore: 1, Frequency: 5, Trend: "High Growth"})
			So(got[1], ShouldResemble, model.EmergingSkill{Skill: "Data Lake", ConfidenceScore: 0.75, Frequency: 3, Trend: "High Growth"})
		})

		Convey("Then curation keeps scores from 0.3 up", func() {
			So(emergence.Curate(got), ShouldHaveLength, 2)
			So(emergence.Curate([]model.EmergingSkill{{ConfidenceScore: 0.29}, {ConfidenceScore: 0.3}}), ShouldHaveLength, 1)
		})
	})

	Convey("Given an odd number of records", t, func() {
		// With five records only the last two are recent.
		records := func(at int) []model.JobRecord {
			rs := make([]model.JobRecord, 5)
			rs[at].Description = "Rust async services"
			return rs
		}
		filler := make([]string, 18)
		for i := range filler {
			filler[i] = "zzz qqq"
		}
		clusters := []model.PhraseCluster{
			{ID: 0, Members: []string{"rust async", "rust async"}},
			{ID: 1, Members: filler},
		}
		find := func(got []model.EmergingSkill) model.EmergingSkill {
			for _, s := range got {
				if s.Skill == "Rust Async" {
					return s
				}
			}
			return model.EmergingSkill{}
		}

		Convey("Then the middle record is not recent", func() {
			// 2/20*2 + 0/2*3
			So(find(emergence.Score(clusters, records(2))).ConfidenceScore, ShouldEqual, 0.2)
		})

		Convey("Then the fourth record is recent", func() {
			So(find(emergence.Score(clusters, records(3))).ConfidenceScore, ShouldEqual, 1)
		})
	})

	Convey("Given equal confidences", t, func() {
		clusters := []model.PhraseCluster{
			{ID: 0, Members: []string{"alpha one", "alpha two"}},
			{ID: 1, Members: []string{"beta one", "beta two"}},
		}

		got := emergence.Score(clusters, nil)

		Convey("Then the input order is kept", func() {
			So(got[0].Skill, ShouldEqual, "Alpha One")
			So(got[1].Skill, ShouldEqual, "Beta One")
			So(got[0].ConfidenceScore, ShouldEqual, 1)
		})
	})

	Convey("Given more than twenty clusters", t, func() {
		var clusters []model.PhraseCluster
		for i := 0; i < 25; i++ {
			members := make([]string, i+1)
			for j := range members {
				members[j] = fmt.Sprintf("phrase %d-%d", i, j)
			}
			clusters = append(clusters, model.PhraseCluster{ID: i, Members: members})
		}

		got := emergence.Score(clusters, nil)

		Convey("Then only the top twenty remain, highest first", func() {
			So(got, ShouldHaveLength, emergence.MaxResults)
			So(got[0].ConfidenceScore, ShouldEqual, 0.15)
			for i := range got {
				So(got[i].Frequency, ShouldBeGreaterThanOrEqualTo, 6)
				if i > 0 {
					So(got[i-1].ConfidenceScore, ShouldBeGreaterThanOrEqualTo, got[i].ConfidenceScore)
				}
			}
		})
	})

	Convey("Given no clusters", t, func() {
		So(emergence.Score(nil, nil), ShouldBeEmpty)
	})
}
