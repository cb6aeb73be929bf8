package utils

// Server-side strings only: health text, error messages, report copy and
// recommendation copy. Questionnaire stems stay in English.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":      "ok",
		"error.cooldown": "You can take the screening again in %d day(s).",
		"error.storage":  "Temporarily unavailable, please try again.",

		"report.title":            "Wellbeing screening results",
		"report.completed":        "Completed %s",
		"report.overall":          "Overall: %s",
		"report.safety":           "You told us you have had thoughts of hurting yourself. Please reach out for support now.",
		"report.col.instrument":   "Questionnaire",
		"report.col.score":        "Score",
		"report.col.result":       "Result",
		"report.next_steps":       "Recommended next steps",
		"report.urgent":           "urgent",
		"report.disclaimer":       "This screening is not a diagnosis.",
		"report.instrument.phq9":  "PHQ-9 (depression)",
		"report.instrument.gad7":  "GAD-7 (anxiety)",
		"report.instrument.pss10": "PSS-10 (perceived stress)",
		"report.instrument.ghq12": "GHQ-12 (general distress)",
	},
	"zh": {
		"health.ok":      "好的",
		"error.cooldown": "%d 天后可以再次进行筛查。",
		"error.storage":  "服务暂时不可用，请稍后重试。",

		"report.title":            "心理健康筛查结果",
		"report.completed":        "完成时间 %s",
		"report.overall":          "总体结果：%s",
		"report.safety":           "你告诉我们你曾有过伤害自己的念头。请现在就寻求支持。",
		"report.col.instrument":   "问卷",
		"report.col.score":        "得分",
		"report.col.result":       "结果",
		"report.next_steps":       "建议的下一步",
		"report.urgent":           "紧急",
		"report.disclaimer":       "本筛查不构成诊断。",
		"report.instrument.phq9":  "PHQ-9（抑郁）",
		"report.instrument.gad7":  "GAD-7（焦虑）",
		"report.instrument.pss10": "PSS-10（知觉压力）",
		"report.instrument.ghq12": "GHQ-12（一般心理困扰）",

		"triage.LOW":          "低",
		"triage.MODERATE":     "中等",
		"triage.HIGH":         "高",
		"triage.CRISIS_ALERT": "危机警报",

		"category.minimal":           "极轻微",
		"category.mild":              "轻度",
		"category.moderate":          "中度",
		"category.moderately_severe": "中重度",
		"category.severe":            "重度",
		"category.low":               "低",
		"category.high":              "高",
		"category.no_distress":       "无心理困扰",
		"category.possible_distress": "可能存在心理困扰",
		"category.probable_distress": "很可能存在心理困扰",

		"recommendation.crisis_support.title":                "立即获取危机支持",
		"recommendation.crisis_support.description":          "你的回答显示你可能处于危险之中。请立即联系危机咨询师，我们全天候提供支持。",
		"recommendation.emergency_resources.title":           "紧急资源",
		"recommendation.emergency_resources.description":     "如果你正处于紧急危险中，请联系当地急救服务或前往最近的急诊科。",
		"recommendation.counseling.title":                    "预约心理咨询",
		"recommendation.counseling.description":              "预约一次与校园咨询师的保密会谈，聊聊你最近的感受。",
		"recommendation.mental_health_resources.title":       "浏览心理健康资源",
		"recommendation.mental_health_resources.description": "关于应对情绪低落、焦虑和压力的练习、文章和音频。",
		"recommendation.peer_support.title":                  "加入同伴支持",
		"recommendation.peer_support.description":            "在有管理的学生论坛中与同伴分享经历。",
		"recommendation.maintain_wellbeing.title":            "保持良好状态",
		"recommendation.maintain_wellbeing.description":      "你的结果看起来很健康。继续保持对你有用的习惯：睡眠、运动和与朋友相处。",
		"recommendation.preventive_care.title":               "预防性自我照顾",
		"recommendation.preventive_care.description":         "简短的自我照顾练习，帮助你在学业繁忙时保持韧性。",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if v, ok := Lookup(locale, key); ok {
		return v
	}
	if v, ok := Lookup("en", key); ok {
		return v
	}
	return key
}

// Lookup reports whether locale itself defines key, without fallback.
func Lookup(locale, key string) (string, bool) {
	m, ok := translations[locale]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}
