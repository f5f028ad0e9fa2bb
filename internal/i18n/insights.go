package i18n

// Insight, card and report keys.
const (
	KeyStrengthPeople        = "insight.strength.people"
	KeyWeaknessPeople        = "insight.weakness.people"
	KeyImprovePeople         = "insight.improve.people"
	KeyStrengthProduction    = "insight.strength.production"
	KeyWeaknessProduction    = "insight.weakness.production"
	KeyImproveProduction     = "insight.improve.production"
	KeyStrengthRadicalCandor = "insight.strength.radical_candor"
	KeyWeaknessRuinous       = "insight.weakness.ruinous_empathy"
	KeyImproveRuinous        = "insight.improve.ruinous_empathy"
	KeyWeaknessObnoxious     = "insight.weakness.obnoxious_aggression"
	KeyImproveObnoxious      = "insight.improve.obnoxious_aggression"
	KeyStrengthLMX           = "insight.strength.lmx"
	KeyWeaknessLMX           = "insight.weakness.lmx"
	KeyImproveLMX            = "insight.improve.lmx"

	KeyStylePrefix  = "style."
	KeyStyleUnknown = "style.unknown"

	KeyPlanImpoverished1 = "plan.impoverished.1"
	KeyPlanImpoverished2 = "plan.impoverished.2"
	KeyPlanImpoverished3 = "plan.impoverished.3"
	KeyPlanTeamLeader1   = "plan.team_leader.1"
	KeyPlanTeamLeader2   = "plan.team_leader.2"
	KeyPlanTeamLeader3   = "plan.team_leader.3"
	KeyPlanPeople        = "plan.people"
	KeyPlanProduction    = "plan.production"
	KeyPlanLMX           = "plan.lmx"

	KeyCardStrengthTitle       = "card.strengths.title"
	KeyCardStrengthDescription = "card.strengths.description"
	KeyCardStrengthAdvice      = "card.strengths.recommendation"
	KeyCardDevelopTitle        = "card.development.title"
	KeyCardDevelopDescription  = "card.development.description"
	KeyCardDevelopAdvice       = "card.development.recommendation"
	KeyCardStyleTitle          = "card.style.title"
	KeyCardStyleAdvice         = "card.style.recommendation"

	KeyTeamDiversity    = "team.recommend.diversity"
	KeyTeamCoaching     = "team.recommend.coaching"
	KeyTeamBuilding     = "team.recommend.team_building"
	KeyTeamGoals        = "team.recommend.goals"
	KeyTeamTrust        = "team.recommend.trust"
	KeyEvalExcellent    = "report.eval.excellent"
	KeyEvalGood         = "report.eval.good"
	KeyEvalFair         = "report.eval.fair"
	KeyEvalAverage      = "report.eval.average"
	KeyEvalNeedsWork    = "report.eval.needs_work"
	KeyReportTitle      = "report.title"
	KeyReportSummary    = "report.summary"
	KeyReportDetails    = "report.details"
	KeyReportPlan       = "report.plan"
	KeyReportStrengths  = "report.strengths"
	KeyReportWeaknesses = "report.weaknesses"
	KeyReportImprove    = "report.improvements"
	KeyReportClosing    = "report.closing"
)

// StyleKey returns the description key for a leadership style value.
func StyleKey(style string) string {
	return KeyStylePrefix + style
}

var insightMessages = map[string]map[string]string{
	KeyStrengthPeople: {
		English: "Excellent at building relationships with team members",
		Korean:  "팀원들과의 관계 구축 능력이 뛰어남",
	},
	KeyWeaknessPeople: {
		English: "Relationships with team members need improvement",
		Korean:  "팀원들과의 관계 개선이 필요함",
	},
	KeyImprovePeople: {
		English: "Deepen understanding of team members through 1:1 meetings",
		Korean:  "1:1 미팅을 통한 팀원 이해도 향상",
	},
	KeyStrengthProduction: {
		English: "Outstanding at reaching goals and delivering results",
		Korean:  "목표 달성과 성과 창출에 탁월함",
	},
	KeyWeaknessProduction: {
		English: "Performance management needs strengthening",
		Korean:  "성과 관리 강화가 필요함",
	},
	KeyImproveProduction: {
		English: "Set clear goals and monitor progress",
		Korean:  "명확한 목표 설정과 진행 상황 모니터링",
	},
	KeyStrengthRadicalCandor: {
		English: "Radical Candor: gives sincere, direct feedback",
		Korean:  "Radical Candor - 진정성 있는 피드백 제공",
	},
	KeyWeaknessRuinous: {
		English: "Ruinous Empathy: hesitates to give necessary feedback",
		Korean:  "Ruinous Empathy - 필요한 피드백을 주저함",
	},
	KeyImproveRuinous: {
		English: "Practice giving constructive criticism",
		Korean:  "건설적인 비판을 제공하는 연습",
	},
	KeyWeaknessObnoxious: {
		English: "Obnoxious Aggression: feedback comes across as aggressive",
		Korean:  "Obnoxious Aggression - 공격적인 피드백",
	},
	KeyImproveObnoxious: {
		English: "Communicate with empathy and care",
		Korean:  "공감과 배려를 담은 커뮤니케이션",
	},
	KeyStrengthLMX: {
		English: "Builds strong trust with team members",
		Korean:  "팀원들과 높은 신뢰 관계 형성",
	},
	KeyWeaknessLMX: {
		English: "Trust with team members needs to be built",
		Korean:  "팀원들과의 신뢰 관계 구축 필요",
	},
	KeyImproveLMX: {
		English: "Act consistently and keep commitments",
		Korean:  "일관성 있는 행동과 약속 이행",
	},

	KeyStylePrefix + "Impoverished": {
		English: "Passive leadership with low engagement",
		Korean:  "낮은 관심도를 보이는 소극적 리더십",
	},
	KeyStylePrefix + "Country-Club": {
		English: "Friendly, people-centred leadership",
		Korean:  "사람 중심의 친화적 리더십",
	},
	KeyStylePrefix + "Authority-Compliance": {
		English: "Authoritative, results-centred leadership",
		Korean:  "성과 중심의 권위적 리더십",
	},
	KeyStylePrefix + "Middle-of-the-Road": {
		English: "Moderate leadership seeking balance",
		Korean:  "균형을 추구하는 중도적 리더십",
	},
	KeyStylePrefix + "Team-Leader": {
		English: "Ideal leadership valuing both people and results",
		Korean:  "사람과 성과 모두를 중시하는 이상적 리더십",
	},
	KeyStylePrefix + "Task-Manager": {
		English: "Execution-oriented, task-centred leadership",
		Korean:  "과업 중심의 실행 지향적 리더십",
	},
	KeyStylePrefix + "Custom": {
		English: "Distinctive leadership with an individual pattern",
		Korean:  "독특한 패턴의 개성적 리더십",
	},
	KeyStyleUnknown: {
		English: "Under analysis",
		Korean:  "분석 중",
	},

	KeyPlanImpoverished1: {
		English: "Join core leadership skills training",
		Korean:  "리더십 기본 역량 강화 교육 참여",
	},
	KeyPlanImpoverished2: {
		English: "Learn from role models through a mentoring programme",
		Korean:  "멘토링 프로그램을 통한 역할 모델 학습",
	},
	KeyPlanImpoverished3: {
		English: "Take ownership of small projects first",
		Korean:  "작은 프로젝트부터 책임감 있게 수행",
	},
	KeyPlanTeamLeader1: {
		English: "Keep developing your current strengths",
		Korean:  "현재의 강점을 더욱 발전시키기",
	},
	KeyPlanTeamLeader2: {
		English: "Mentor other leaders",
		Korean:  "다른 리더들에게 멘토링 제공",
	},
	KeyPlanTeamLeader3: {
		English: "Lead improvements to the organisation's leadership culture",
		Korean:  "조직 전체의 리더십 문화 개선 주도",
	},
	KeyPlanPeople: {
		English: "Attend an emotional intelligence workshop",
		Korean:  "감성 지능 향상 워크샵 참여",
	},
	KeyPlanProduction: {
		English: "Study goal management and performance measurement",
		Korean:  "목표 관리 및 성과 측정 기법 학습",
	},
	KeyPlanLMX: {
		English: "Develop communication skills that build trust",
		Korean:  "신뢰 구축을 위한 커뮤니케이션 스킬 개발",
	},

	KeyCardStrengthTitle: {
		English: "Leverage your core strengths",
		Korean:  "핵심 강점 활용",
	},
	KeyCardStrengthDescription: {
		English: "Your main strengths: %s",
		Korean:  "당신의 주요 강점: %s",
	},
	KeyCardStrengthAdvice: {
		English: "Think about how to spread these strengths across the team.",
		Korean:  "이러한 강점을 팀 전체에 확산시킬 방법을 고민해보세요.",
	},
	KeyCardDevelopTitle: {
		English: "Priority development area",
		Korean:  "우선 개발 영역",
	},
	KeyCardDevelopDescription: {
		English: "Area to focus on: %s",
		Korean:  "집중할 영역: %s",
	},
	KeyCardDevelopAdvice: {
		English: "Draw up a concrete action plan to improve this area.",
		Korean:  "이 영역의 개선을 위해 구체적인 실행 계획을 수립하세요.",
	},
	KeyCardStyleTitle: {
		English: "Optimise your leadership style",
		Korean:  "리더십 스타일 최적화",
	},
	KeyCardStyleAdvice: {
		English: "Keep the strengths of your current style but adapt it to the situation.",
		Korean:  "현재 스타일의 장점은 유지하되, 상황에 따라 유연하게 조정하세요.",
	},

	KeyTeamDiversity: {
		English: "Introduce training to broaden the diversity of leadership styles",
		Korean:  "리더십 스타일 다양성을 높이기 위한 교육 프로그램 도입",
	},
	KeyTeamCoaching: {
		English: "Run focused coaching for high-risk members",
		Korean:  "고위험군 구성원을 위한 집중 코칭 프로그램 실시",
	},
	KeyTeamBuilding: {
		English: "Improve relationships through team-building activities",
		Korean:  "팀 빌딩 활동을 통한 관계 개선",
	},
	KeyTeamGoals: {
		English: "Strengthen goal setting and performance management",
		Korean:  "목표 설정 및 성과 관리 체계 강화",
	},
	KeyTeamTrust: {
		English: "Hold leader-member trust-building workshops",
		Korean:  "리더-구성원 간 신뢰 구축 워크샵",
	},

	KeyEvalExcellent: {English: "Excellent", Korean: "매우 우수"},
	KeyEvalGood:      {English: "Good", Korean: "우수"},
	KeyEvalFair:      {English: "Fair", Korean: "양호"},
	KeyEvalAverage:   {English: "Average", Korean: "보통"},
	KeyEvalNeedsWork: {English: "Needs improvement", Korean: "개선 필요"},

	KeyReportTitle:      {English: "Leadership Analysis Report", Korean: "리더십 분석 보고서"},
	KeyReportSummary:    {English: "Executive Summary", Korean: "핵심 요약"},
	KeyReportDetails:    {English: "Detailed Analysis", Korean: "상세 분석"},
	KeyReportPlan:       {English: "Personal Development Plan", Korean: "개인 개발 계획"},
	KeyReportStrengths:  {English: "Strengths", Korean: "강점"},
	KeyReportWeaknesses: {English: "Areas to improve", Korean: "개선 영역"},
	KeyReportImprove:    {English: "Suggestions", Korean: "개선 제안"},
	KeyReportClosing: {
		English: "This report was generated automatically. Keep developing through continuous feedback.",
		Korean:  "이 보고서는 자동으로 생성되었습니다. 지속적인 자기 개발과 피드백을 통해 더 나은 리더가 되시길 응원합니다.",
	},
}

func init() {
	for key, translations := range insightMessages {
		builtin[key] = translations
	}
}
