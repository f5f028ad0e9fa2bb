package i18n

// Message keys.
const (
	KeyEmailInvalid         = "validation.email_invalid"
	KeyNameLength           = "validation.name_length"
	KeyCountMismatch        = "validation.count_mismatch"
	KeyValueRange           = "validation.value_range"
	KeyUnknownItem          = "validation.unknown_item"
	KeyHighVariance         = "validation.high_variance"
	KeyIdenticalValues      = "validation.identical_values"
	KeyPatternOutlier       = "validation.pattern_outlier"
	KeyCompletionFast       = "validation.completion_fast"
	KeyCompletionSlow       = "validation.completion_slow"
	KeyDuplicate            = "validation.duplicate"
	KeyTooFrequent          = "validation.too_frequent"
	KeyDuplicateUnavailable = "validation.duplicate_unavailable"
	KeyBatchLimit           = "validation.batch_limit"
	KeyScoreRange           = "validation.score_range"

	KeyExtremeGap            = "anomaly.extreme_gap"
	KeyProductionLMXMismatch = "anomaly.production_lmx_mismatch"
	KeyAllHigh               = "anomaly.all_high"
	KeyAllLow                = "anomaly.all_low"
	KeyCandorLMXConflict     = "anomaly.candor_lmx_conflict"
	KeyRapidChange           = "anomaly.rapid_change"
	KeyYoyoPattern           = "anomaly.yoyo_pattern"
	KeyReviewNeeded          = "anomaly.review_needed"

	KeyGradeNormal   = "grade.normal"
	KeyGradeCaution  = "grade.caution"
	KeyGradeWarning  = "grade.warning"
	KeyGradeCritical = "grade.critical"

	KeyRecommendBalance      = "recommend.balance"
	KeyRecommendHonesty      = "recommend.honest_self_assessment"
	KeyRecommendCandorRelate = "recommend.candor_relationship"
)

var builtin = map[string]map[string]string{
	KeyEmailInvalid: {
		English: "Invalid email format!",
		Korean:  "올바른 이메일 형식이 아니오!",
	},
	KeyNameLength: {
		English: "Name must be between 2 and 100 characters",
		Korean:  "이름은 2자 이상 100자 이하여야 하오",
	},
	KeyCountMismatch: {
		English: "Response count mismatch for %s: expected %d, got %d",
		Korean:  "응답 개수 불일치 (%s): %d개 필요, %d개 제출",
	},
	KeyValueRange: {
		English: "Response values must be between 1-7! (%s=%d)",
		Korean:  "응답 값은 1-7 범위여야 하오! (%s=%d)",
	},
	KeyUnknownItem: {
		English: "Unknown question id ignored: %s",
		Korean:  "알 수 없는 문항은 무시되었소: %s",
	},
	KeyHighVariance: {
		English: "High response variance in %s (std %.2f)",
		Korean:  "높은 응답 변동성 (%s, 표준편차 %.2f)",
	},
	KeyIdenticalValues: {
		English: "All responses have the same value! This doesn't seem like a sincere response.",
		Korean:  "모든 응답이 동일한 값이오! 성의있는 응답이 아닌 것 같소.",
	},
	KeyPatternOutlier: {
		English: "Unusual response pattern: %s",
		Korean:  "이상 응답 패턴: %s",
	},
	KeyCompletionFast: {
		English: "Very fast completion time (%d seconds)",
		Korean:  "매우 빠른 완료 시간 (%d초)",
	},
	KeyCompletionSlow: {
		English: "Very slow completion time (%d seconds)",
		Korean:  "매우 느린 완료 시간 (%d초)",
	},
	KeyDuplicate: {
		English: "The same response was already submitted within 24 hours! (previous submission at %s)",
		Korean:  "24시간 내 동일한 응답이 이미 제출되었소! (이전 제출: %s)",
	},
	KeyTooFrequent: {
		English: "Too frequent responses: %d submissions in the last 24 hours.",
		Korean:  "너무 빈번한 응답이오. 최근 24시간 동안 %d회 제출되었소.",
	},
	KeyDuplicateUnavailable: {
		English: "Duplicate check could not be completed; recent submissions were not compared.",
		Korean:  "중복 검사를 완료하지 못했소. 최근 제출과 비교하지 않았소.",
	},
	KeyBatchLimit: {
		English: "Batch size cannot exceed %d items",
		Korean:  "배치 크기는 최대 %d개입니다",
	},
	KeyScoreRange: {
		English: "All scores must be between 1 and 7",
		Korean:  "모든 점수는 1-7 범위여야 합니다",
	},

	KeyExtremeGap: {
		English: "Extreme difference between %s and %s (%.1f)",
		Korean:  "%s와 %s의 극단적 차이 (%.1f)",
	},
	KeyProductionLMXMismatch: {
		English: "High performance focus + very low relationship quality",
		Korean:  "높은 성과 중심 + 매우 낮은 관계 품질",
	},
	KeyAllHigh: {
		English: "All dimensions are unrealistically high",
		Korean:  "모든 차원이 비현실적으로 높음",
	},
	KeyAllLow: {
		English: "All dimensions are unrealistically low",
		Korean:  "모든 차원이 비현실적으로 낮음",
	},
	KeyCandorLMXConflict: {
		English: "High candor + low relationship quality (contradictory)",
		Korean:  "높은 솔직함 + 낮은 관계 품질 (모순)",
	},
	KeyRapidChange: {
		English: "%.2f change over %d days (%.2f per day)",
		Korean:  "%[2]d일 동안 %.2[1]f 변화 (일일 %.2[3]f)",
	},
	KeyYoyoPattern: {
		English: "Inconsistent yo-yo pattern",
		Korean:  "일관성 없는 요요 패턴",
	},
	KeyReviewNeeded: {
		English: "Anomaly patterns detected. Review needed.",
		Korean:  "이상 패턴이 감지되었소. 검토가 필요하오.",
	},

	KeyGradeNormal:   {English: "Normal", Korean: "정상"},
	KeyGradeCaution:  {English: "Caution", Korean: "주의"},
	KeyGradeWarning:  {English: "Warning", Korean: "경고"},
	KeyGradeCritical: {English: "Critical", Korean: "위험"},

	KeyRecommendBalance: {
		English: "It's important to balance People and Production scores",
		Korean:  "People과 Production 점수의 균형을 맞추는 것이 중요합니다",
	},
	KeyRecommendHonesty: {
		English: "High scores in all areas may not be realistic. Honest self-assessment is needed",
		Korean:  "모든 영역에서 높은 점수는 현실적이지 않을 수 있습니다. 솔직한 자기평가가 필요합니다",
	},
	KeyRecommendCandorRelate: {
		English: "The combination of high candor and low relationship quality needs improvement",
		Korean:  "높은 솔직함과 낮은 관계 품질의 조합은 개선이 필요합니다",
	},
}
