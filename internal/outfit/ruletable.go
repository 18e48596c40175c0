package outfit

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

type ruleBucket struct {
	Name  string            `yaml:"name"`
	Below float64           `yaml:"below"`
	Slots map[Slot][]string `yaml:"slots"`
}

type ruleConfig struct {
	Windbreaker        string       `yaml:"windbreaker"`
	OpenShoes          []string     `yaml:"open_shoes"`
	Dresses            []string     `yaml:"dresses"`
	SunnyAdviceMinTemp float64      `yaml:"sunny_advice_min_temp"`
	Buckets            []ruleBucket `yaml:"buckets"`
}

var rules ruleConfig

func init() {
	if err := yaml.Unmarshal(rulesYAML, &rules); err != nil {
		panic(fmt.Sprintf("outfit: embedded rules.yaml is invalid: %v", err))
	}
	if len(rules.Buckets) == 0 {
		panic("outfit: embedded rules.yaml has no temperature buckets")
	}
}

// Recommend maps ambient temperature and weather tags to the candidate
// subcategories per slot plus an umbrella advisory. Buckets use
// strict-less-than upper bounds, so a boundary temperature lands in the
// warmer bucket. Tag rules run in fixed order: rainy, sunny, windy — the
// rainy "Yes" advisory always beats the sunny "Maybe".
func Recommend(tempC float64, tags TagSet) (SlotCandidates, UmbrellaAdvice) {
	bucket := rules.Buckets[len(rules.Buckets)-1]
	for _, b := range rules.Buckets {
		if tempC < b.Below {
			bucket = b
			break
		}
	}

	cands := make(SlotCandidates, len(Slots))
	for _, slot := range Slots {
		cands[slot] = append([]string(nil), bucket.Slots[slot]...)
	}

	advice := UmbrellaNo
	if tags[TagRainy] {
		cands[SlotShoes] = removeAll(cands[SlotShoes], rules.OpenShoes)
		advice = UmbrellaYes
		cands[SlotOuterwear] = appendMissing(cands[SlotOuterwear], rules.Windbreaker)
	}
	if tags[TagSunny] && tempC >= rules.SunnyAdviceMinTemp && advice == UmbrellaNo {
		advice = UmbrellaMaybe
	}
	if tags[TagWindy] {
		cands[SlotOuterwear] = appendMissing(cands[SlotOuterwear], rules.Windbreaker)
	}
	return cands, advice
}

// IsDress reports whether a subcategory belongs to the fixed dress set.
func IsDress(subcat string) bool {
	for _, d := range rules.Dresses {
		if d == subcat {
			return true
		}
	}
	return false
}

// IsDressSet reports whether a cell subcategory set is a dress binding.
func IsDressSet(subcats []string) bool {
	for _, s := range subcats {
		if IsDress(s) {
			return true
		}
	}
	return false
}

func removeAll(list []string, drop []string) []string {
	out := list[:0:0]
	for _, v := range list {
		dropped := false
		for _, d := range drop {
			if v == d {
				dropped = true
				break
			}
		}
		if !dropped {
			out = append(out, v)
		}
	}
	return out
}

func appendMissing(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
