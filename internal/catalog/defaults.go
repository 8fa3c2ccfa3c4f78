package catalog

// Built-in storefront configuration for the Medical Coding Online catalog.
// Kept in code like the rest of the storefront config; an external config
// source can replace this wholesale by constructing the Catalog differently.

func DefaultTopics() []Topic {
	return []Topic{
		{ID: "topic-icd-10-cm", Name: "ICD-10-CM Fundamentals"},
		{ID: "topic-cpt-procedural", Name: "CPT Procedural Coding"},
		{ID: "topic-hcpcs-level-2", Name: "HCPCS Level II"},
		{ID: "topic-anatomy-physiology", Name: "Anatomy & Physiology"},
		{ID: "topic-compliance-auditing", Name: "Compliance and Auditing"},
		{ID: "topic-inpatient-coding", Name: "Inpatient Coding Challenge"},
		{ID: "topic-outpatient-coding", Name: "Outpatient Coding Challenge"},
		{ID: "topic-risk-adjustment", Name: "Risk Adjustment (HCC)"},
		{ID: "topic-medical-terminology", Name: "Medical Terminology"},
		{ID: "topic-medical-billing", Name: "Medical Billing"},
	}
}

type product struct {
	slug       string
	name       string
	priceCents int
	topics     []string
	certTopics []string // when the certification exam covers extra topics
}

var products = []product{
	{slug: "cpc", name: "CPC", priceCents: 1999,
		topics: []string{"topic-icd-10-cm", "topic-cpt-procedural", "topic-hcpcs-level-2"}},
	{slug: "cca", name: "CCA", priceCents: 2499,
		topics:     []string{"topic-anatomy-physiology", "topic-medical-terminology", "topic-compliance-auditing"},
		certTopics: []string{"topic-anatomy-physiology", "topic-medical-terminology", "topic-compliance-auditing", "topic-outpatient-coding"}},
	{slug: "ccs", name: "CCS", priceCents: 2999,
		topics: []string{"topic-inpatient-coding", "topic-outpatient-coding", "topic-compliance-auditing"}},
	{slug: "inpatient", name: "Inpatient Coding", priceCents: 1999,
		topics: []string{"topic-inpatient-coding"}},
	{slug: "outpatient", name: "Outpatient Coding", priceCents: 1499,
		topics: []string{"topic-outpatient-coding"}},
	{slug: "billing", name: "Medical Billing", priceCents: 1299,
		topics: []string{"topic-medical-billing", "topic-hcpcs-level-2"}},
	{slug: "risk", name: "Risk Adjustment", priceCents: 1999,
		topics: []string{"topic-risk-adjustment"}},
	{slug: "auditing", name: "Medical Auditing", priceCents: 2199,
		topics: []string{"topic-compliance-auditing"}},
	{slug: "cpma", name: "CPMA", priceCents: 2299,
		topics: []string{"topic-compliance-auditing"}},
	{slug: "icd", name: "ICD-10-CM", priceCents: 1499,
		topics: []string{"topic-icd-10-cm"}},
}

// DefaultExams returns a free 10-question practice test and a paid
// 100-question certification exam per product, both with a 70% pass
// threshold.
func DefaultExams() []ExamDefinition {
	out := make([]ExamDefinition, 0, 2*len(products))
	for _, p := range products {
		certTopics := p.certTopics
		if certTopics == nil {
			certTopics = p.topics
		}
		out = append(out,
			ExamDefinition{
				ID:                   "exam-" + p.slug + "-practice",
				Name:                 p.name + " Practice Test",
				QuestionCount:        10,
				PassThresholdPercent: 70,
				IsPractice:           true,
				TopicIDs:             p.topics,
			},
			ExamDefinition{
				ID:                   "exam-" + p.slug + "-cert",
				Name:                 p.name + " Certification Exam",
				PriceCents:           p.priceCents,
				QuestionCount:        100,
				PassThresholdPercent: 70,
				DurationMinutes:      120,
				TopicIDs:             certTopics,
			},
		)
	}
	return out
}
