package training

import (
	"sort"
)

// ClassMetrics holds per-class evaluation numbers.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   float64 `json:"support"`
}

// ClassificationReport mirrors the persisted report shape, one block per
// class plus accuracy and averaged rows.
type ClassificationReport struct {
	Negative    ClassMetrics `json:"0"`
	Positive    ClassMetrics `json:"1"`
	Accuracy    float64      `json:"accuracy"`
	MacroAvg    ClassMetrics `json:"macro avg"`
	WeightedAvg ClassMetrics `json:"weighted avg"`
}

// Metrics is the evaluation document produced once per training run.
type Metrics struct {
	AUC    float64              `json:"auc"`
	Report ClassificationReport `json:"classification_report"`
}

// rocAUC computes the area under the ROC curve from probabilities using the
// rank statistic, averaging ranks across tied probabilities.
func rocAUC(y []int, probs []float64) (float64, error) {
	var nPos, nNeg int
	for _, label := range y {
		if label == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, ErrSingleClass
	}

	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] < probs[order[b]] })

	ranks := make([]float64, len(probs))
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && probs[order[j]] == probs[order[i]] {
			j++
		}
		// 1-based ranks, averaged over the tie group.
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	var rankSumPos float64
	for i, label := range y {
		if label == 1 {
			rankSumPos += ranks[i]
		}
	}
	u := rankSumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// classificationReport computes per-class precision/recall/F1/support from
// hard predictions, plus accuracy and macro/weighted averages.
func classificationReport(y, pred []int) ClassificationReport {
	var tp, fp, tn, fn float64
	for i, label := range y {
		switch {
		case label == 1 && pred[i] == 1:
			tp++
		case label == 0 && pred[i] == 1:
			fp++
		case label == 0 && pred[i] == 0:
			tn++
		default:
			fn++
		}
	}

	neg := ClassMetrics{
		Precision: safeDiv(tn, tn+fn),
		Recall:    safeDiv(tn, tn+fp),
		Support:   tn + fp,
	}
	neg.F1 = f1(neg.Precision, neg.Recall)

	pos := ClassMetrics{
		Precision: safeDiv(tp, tp+fp),
		Recall:    safeDiv(tp, tp+fn),
		Support:   tp + fn,
	}
	pos.F1 = f1(pos.Precision, pos.Recall)

	total := neg.Support + pos.Support
	report := ClassificationReport{
		Negative: neg,
		Positive: pos,
		Accuracy: safeDiv(tp+tn, total),
		MacroAvg: ClassMetrics{
			Precision: (neg.Precision + pos.Precision) / 2,
			Recall:    (neg.Recall + pos.Recall) / 2,
			F1:        (neg.F1 + pos.F1) / 2,
			Support:   total,
		},
		WeightedAvg: ClassMetrics{
			Precision: safeDiv(neg.Precision*neg.Support+pos.Precision*pos.Support, total),
			Recall:    safeDiv(neg.Recall*neg.Support+pos.Recall*pos.Support, total),
			F1:        safeDiv(neg.F1*neg.Support+pos.F1*pos.Support, total),
			Support:   total,
		},
	}
	return report
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
