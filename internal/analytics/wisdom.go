package analytics

import (
	"math/rand/v2"

	"artha/internal/core"
)

// RandSource picks an index in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

var catalog = []core.Wisdom{
	{
		Sanskrit:        "अर्थस्य मूलं राज्यं",
		Transliteration: "arthasya mūlaṃ rājyaṃ",
		Translation:     "The foundation of wealth is governance (self-discipline).",
		Source:          "Kauṭilya's Arthaśāstra 1.7",
		Context:         core.ContextSavingsHigh,
	},
	{
		Sanskrit:        "उद्यमेन हि सिध्यन्ति कार्याणि न मनोरथैः",
		Transliteration: "udyamena hi sidhyanti kāryāṇi na manorathaiḥ",
		Translation:     "Tasks are accomplished through effort, not by wishful thinking.",
		Source:          "Cāṇakya Nīti 16.4",
		Context:         core.ContextGeneral,
	},
	{
		Sanskrit:        "अनागतविधाता च प्रत्युत्पन्नमतिस्तथा",
		Transliteration: "anāgatavidhātā ca pratyutpannamatistathā",
		Translation:     "One who plans for the future and thinks quickly in the present [succeeds].",
		Source:          "Pañcatantra 1.41",
		Context:         core.ContextSavingsHigh,
	},
	{
		Sanskrit:        "अल्पानामपि वस्तूनां संहतिः कार्यसाधिका",
		Transliteration: "alpānāmapi vastūnāṃ saṃhatiḥ kāryasādhikā",
		Translation:     "Even small things, when accumulated, accomplish great tasks.",
		Source:          "Cāṇakya Nīti 15.14",
		Context:         core.ContextSmallSavings,
	},
	{
		Sanskrit:        "अर्थनाशं मनस्तापं गृहे दुश्चरितानि च। वञ्चनं चापमानं च मतिमान्न प्रकाशयेत्॥",
		Transliteration: "arthanāśaṃ manastāpaṃ gṛhe duścaritāni ca | vañcanaṃ cāpamānaṃ ca matimānna prakāśayet ||",
		Translation:     "A wise person does not reveal: loss of wealth, mental anguish, household troubles, deception, or dishonor.",
		Source:          "Cāṇakya Nīti 7.2",
		Context:         core.ContextOverspending,
	},
	{
		Sanskrit:        "अर्थातुराणां न सुहृन्न बन्धुः",
		Transliteration: "arthāturāṇāṃ na suhṛnna bandhuḥ",
		Translation:     "Those desperate for money have neither friends nor family.",
		Source:          "Vidura Nīti (Mahābhārata)",
		Context:         core.ContextOverspending,
	},
	{
		Sanskrit:        "सर्वे गुणाः काञ्चनमाश्रयन्ति",
		Transliteration: "sarve guṇāḥ kāñcanamāśrayanti",
		Translation:     "All virtues depend on gold (financial security).",
		Source:          "Cāṇakya Nīti 5.3",
		Context:         core.ContextGeneral,
	},
	{
		Sanskrit:        "धनेन किं यो न ददाति नाश्नुते",
		Transliteration: "dhanena kiṃ yo na dadāti nāśnute",
		Translation:     "What use is wealth if one neither gives nor enjoys it?",
		Source:          "Subhāṣita",
		Context:         core.ContextBalanced,
	},
	{
		Sanskrit:        "आयादधिकं व्ययं कुर्वन् अधमो जायते नरः",
		Transliteration: "āyādadhikaṃ vyayaṃ kurvan adhamo jāyate naraḥ",
		Translation:     "One who spends more than their income becomes degraded.",
		Source:          "Vidura Nīti",
		Context:         core.ContextOverspending,
	},
	{
		Sanskrit:        "धनानि जीवितं चैव परार्थे प्राज्ञ उत्सृजेत्",
		Transliteration: "dhanāni jīvitaṃ caiva parārthe prājña utsṛjet",
		Translation:     "The wise person sacrifices wealth and even life for a higher purpose.",
		Source:          "Vidura Nīti",
		Context:         core.ContextCharitable,
	},
}

// Catalog returns a copy of every quotation record.
func Catalog() []core.Wisdom {
	return append([]core.Wisdom(nil), catalog...)
}

// WisdomPicker selects quotations. Choice among candidates is random;
// the fallback to the general context is not.
type WisdomPicker struct {
	rnd     RandSource
	records []core.Wisdom
}

// NewWisdomPicker returns a picker over the built-in catalog. A nil source
// uses the package-level generator from math/rand/v2.
func NewWisdomPicker(rnd RandSource) *WisdomPicker {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &WisdomPicker{rnd: rnd, records: catalog}
}

// Matching returns the records tagged with ctx, or the general records if none are.
func (p *WisdomPicker) Matching(ctx core.WisdomContext) []core.Wisdom {
	if out := p.filter(ctx); len(out) > 0 {
		return out
	}
	return p.filter(core.ContextGeneral)
}

// ForContext picks uniformly among the records matching ctx.
func (p *WisdomPicker) ForContext(ctx core.WisdomContext) core.Wisdom {
	candidates := p.Matching(ctx)
	return candidates[p.rnd.IntN(len(candidates))]
}

// Any picks uniformly over the whole catalog.
func (p *WisdomPicker) Any() core.Wisdom {
	return p.records[p.rnd.IntN(len(p.records))]
}

func (p *WisdomPicker) filter(ctx core.WisdomContext) []core.Wisdom {
	var out []core.Wisdom
	for _, w := range p.records {
		if w.Context == ctx {
			out = append(out, w)
		}
	}
	return out
}
