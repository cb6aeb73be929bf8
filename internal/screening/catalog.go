package screening

// CatalogItem is one localized question.
type CatalogItem struct {
	Index         int    `json:"index"`
	Stem          string `json:"stem"`
	ReverseScored bool   `json:"reverse_scored"`
}

// CatalogEntry describes how to present one instrument.
type CatalogEntry struct {
	Code      Instrument    `json:"code"`
	Name      string        `json:"name"`
	Prompt    string        `json:"prompt"`
	Questions int           `json:"questions"`
	MinValue  int           `json:"min_value"`
	MaxValue  int           `json:"max_value"`
	MaxScore  int           `json:"max_score"`
	Labels    []string      `json:"labels"`
	Items     []CatalogItem `json:"items"`
}

type instrumentText struct {
	name   map[string]string
	prompt map[string]string
	labels map[string][]string
	stems  []string
}

var frequencyLabels = map[string][]string{
	"en": {"Not at all", "Several days", "More than half the days", "Nearly every day"},
	"zh": {"完全没有", "有几天", "一半以上的天数", "几乎每天"},
}

var instrumentTexts = map[Instrument]instrumentText{
	PHQ9: {
		name:   map[string]string{"en": "Patient Health Questionnaire (PHQ-9)", "zh": "患者健康问卷（PHQ-9）"},
		prompt: map[string]string{"en": "Over the last two weeks, how often have you been bothered by the following?", "zh": "在过去两周里，你有多少时间受到以下问题的困扰？"},
		labels: frequencyLabels,
		stems: []string{
			"Little interest or pleasure in doing things",
			"Feeling down, depressed, or hopeless",
			"Trouble falling or staying asleep, or sleeping too much",
			"Feeling tired or having little energy",
			"Poor appetite or overeating",
			"Feeling bad about yourself, or that you are a failure or have let yourself or your family down",
			"Trouble concentrating on things, such as reading or watching television",
			"Moving or speaking so slowly that other people could have noticed, or the opposite: being fidgety or restless",
			"Thoughts that you would be better off dead, or of hurting yourself",
		},
	},
	GAD7: {
		name:   map[string]string{"en": "Generalized Anxiety Disorder scale (GAD-7)", "zh": "广泛性焦虑量表（GAD-7）"},
		prompt: map[string]string{"en": "Over the last two weeks, how often have you been bothered by the following?", "zh": "在过去两周里，你有多少时间受到以下问题的困扰？"},
		labels: frequencyLabels,
		stems: []string{
			"Feeling nervous, anxious, or on edge",
			"Not being able to stop or control worrying",
			"Worrying too much about different things",
			"Trouble relaxing",
			"Being so restless that it is hard to sit still",
			"Becoming easily annoyed or irritable",
			"Feeling afraid, as if something awful might happen",
		},
	},
	PSS10: {
		name:   map[string]string{"en": "Perceived Stress Scale (PSS-10)", "zh": "知觉压力量表（PSS-10）"},
		prompt: map[string]string{"en": "In the last month, how often have you...", "zh": "在过去一个月里，你有多经常……"},
		labels: map[string][]string{
			"en": {"Never", "Almost never", "Sometimes", "Fairly often", "Very often"},
			"zh": {"从不", "几乎从不", "有时", "相当频繁", "非常频繁"},
		},
		stems: []string{
			"been upset because of something that happened unexpectedly?",
			"felt that you were unable to control the important things in your life?",
			"felt nervous and stressed?",
			"felt confident about your ability to handle your personal problems?",
			"felt that things were going your way?",
			"found that you could not cope with all the things that you had to do?",
			"been able to control irritations in your life?",
			"felt that you were on top of things?",
			"been angered because of things that were outside of your control?",
			"felt difficulties were piling up so high that you could not overcome them?",
		},
	},
	GHQ12: {
		name:   map[string]string{"en": "General Health Questionnaire (GHQ-12)", "zh": "一般健康问卷（GHQ-12）"},
		prompt: map[string]string{"en": "Over the past few weeks, compared with how you usually feel:", "zh": "在过去几周里，与平时相比："},
		labels: map[string][]string{
			"en": {"Better than usual", "Same as usual", "Worse than usual", "Much worse than usual"},
			"zh": {"比平时好", "与平时一样", "比平时差", "比平时差很多"},
		},
		stems: []string{
			"Able to concentrate on what you are doing",
			"Lost much sleep over worry",
			"Felt you were playing a useful part in things",
			"Felt capable of making decisions about things",
			"Felt constantly under strain",
			"Felt you could not overcome your difficulties",
			"Able to enjoy your normal day-to-day activities",
			"Able to face up to your problems",
			"Feeling unhappy and depressed",
			"Losing confidence in yourself",
			"Thinking of yourself as a worthless person",
			"Feeling reasonably happy, all things considered",
		},
	},
}

func localized(m map[string]string, lang string) string {
	if v, ok := m[lang]; ok {
		return v
	}
	return m["en"]
}

// Catalog returns the presentation of every instrument in lang, falling back to English.
// Item stems are only maintained in English.
func Catalog(lang string) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(Instruments))
	for _, code := range Instruments {
		def := definitions[code]
		text := instrumentTexts[code]
		labels, ok := text.labels[lang]
		if !ok {
			labels = text.labels["en"]
		}
		items := make([]CatalogItem, 0, len(text.stems))
		for i, stem := range text.stems {
			items = append(items, CatalogItem{Index: i, Stem: stem, ReverseScored: def.IsReversed(i)})
		}
		out = append(out, CatalogEntry{
			Code:      code,
			Name:      localized(text.name, lang),
			Prompt:    localized(text.prompt, lang),
			Questions: def.Questions,
			MinValue:  def.MinValue,
			MaxValue:  def.MaxValue,
			MaxScore:  def.MaxScore,
			Labels:    append([]string(nil), labels...),
			Items:     items,
		})
	}
	return out
}
