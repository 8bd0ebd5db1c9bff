package interpret

import "github.com/intriguedcoder/medical-report-agent/pkg/models"

// rangeRule is one row of a category's threshold table. Rules are evaluated
// in declared order and the first matching predicate wins, so each table can
// express inclusive/exclusive boundaries without overlap bookkeeping.
type rangeRule struct {
	applies     func(v float64) bool
	status      models.Status
	implication string
	advice      string
}

// thresholdTables holds the fixed interpretation rules per category. The
// numbers are standard adult reference boundaries; they are data, not
// computation, and are language-independent (localization happens later, on
// the composed prose).
var thresholdTables = map[Category][]rangeRule{
	CategoryGlucose: {
		{func(v float64) bool { return v < 70 },
			models.StatusALittleLow,
			"Your blood sugar is lower than normal, which can cause weakness and dizziness.",
			"Eat regular meals and do not skip breakfast."},
		{func(v float64) bool { return v <= 140 },
			models.StatusGood,
			"Your blood sugar level is in a healthy range.",
			"Keep up your current diet and activity."},
		{func(v float64) bool { return v <= 200 },
			models.StatusALittleHigh,
			"Your blood sugar is a little high, which over time can strain your body.",
			"Cut down on sweets and refined carbohydrates, and walk daily."},
		{func(v float64) bool { return v > 200 },
			models.StatusNeedsAttention,
			"Your blood sugar is very high and needs medical attention.",
			"Please see a doctor soon to discuss diabetes management."},
	},
	CategoryCholesterol: {
		{func(v float64) bool { return v < 200 },
			models.StatusGood,
			"Your cholesterol level is in a healthy range.",
			"Continue eating a balanced diet."},
		{func(v float64) bool { return v <= 240 },
			models.StatusALittleHigh,
			"Your cholesterol is a little high, which can affect your heart over time.",
			"Reduce fried and oily food, and add more vegetables."},
		{func(v float64) bool { return v > 240 },
			models.StatusNeedsAttention,
			"Your cholesterol is high and increases the risk of heart problems.",
			"Please consult a doctor about diet changes and possible treatment."},
	},
	CategoryBloodPressure: {
		{func(v float64) bool { return v < 120 },
			models.StatusGood,
			"Your blood pressure is in a healthy range.",
			"Keep up regular activity and a low-salt diet."},
		{func(v float64) bool { return v <= 140 },
			models.StatusALittleHigh,
			"Your blood pressure is a little high, which makes your heart work harder.",
			"Reduce salt, manage stress, and check your pressure regularly."},
		{func(v float64) bool { return v > 140 },
			models.StatusNeedsAttention,
			"Your blood pressure is high and needs medical attention.",
			"Please see a doctor to discuss blood pressure treatment."},
	},
	CategoryHemoglobin: {
		{func(v float64) bool { return v < 12.0 },
			models.StatusALittleLow,
			"Your hemoglobin is low, which can cause tiredness and weakness.",
			"Eat iron-rich food like green leafy vegetables, lentils, and jaggery."},
		{func(v float64) bool { return v <= 17.5 },
			models.StatusGood,
			"Your hemoglobin level is in a healthy range.",
			"Keep eating a balanced, iron-rich diet."},
		{func(v float64) bool { return v > 17.5 },
			models.StatusALittleHigh,
			"Your hemoglobin is higher than normal, which can thicken the blood.",
			"Drink enough water and mention this to your doctor."},
	},
	CategoryHbA1c: {
		{func(v float64) bool { return v < 5.7 },
			models.StatusGood,
			"Your average blood sugar over the past months is in a healthy range.",
			"Keep up your current diet and activity."},
		{func(v float64) bool { return v <= 6.4 },
			models.StatusALittleHigh,
			"Your average blood sugar is a little high, in the pre-diabetes range.",
			"Reduce sugar intake, stay active, and re-test in a few months."},
		{func(v float64) bool { return v > 6.4 },
			models.StatusNeedsAttention,
			"Your average blood sugar is in the diabetes range and needs attention.",
			"Please consult a doctor about managing your blood sugar."},
	},
	CategoryCreatinine: {
		{func(v float64) bool { return v < 0.6 },
			models.StatusALittleLow,
			"Your creatinine is lower than normal, which can relate to low muscle mass.",
			"Eat enough protein and discuss this with your doctor."},
		{func(v float64) bool { return v <= 1.3 },
			models.StatusGood,
			"Your kidney function marker is in a healthy range.",
			"Keep drinking enough water every day."},
		{func(v float64) bool { return v > 1.3 },
			models.StatusALittleHigh,
			"Your creatinine is high, which can mean your kidneys are under strain.",
			"Drink enough water and consult a doctor about your kidney function."},
	},
	CategoryThyroid: {
		{func(v float64) bool { return v < 0.4 },
			models.StatusALittleLow,
			"Your thyroid hormone level suggests an overactive thyroid.",
			"Please consult a doctor about your thyroid function."},
		{func(v float64) bool { return v <= 4.0 },
			models.StatusGood,
			"Your thyroid function is in a healthy range.",
			"No special action is needed for your thyroid."},
		{func(v float64) bool { return v > 4.0 },
			models.StatusALittleHigh,
			"Your thyroid hormone level suggests an underactive thyroid.",
			"Please consult a doctor about your thyroid function."},
	},
	CategoryVitaminD: {
		{func(v float64) bool { return v >= 30 },
			models.StatusGood,
			"Your vitamin D level is in a healthy range.",
			"Keep getting some sunlight every day."},
		{func(v float64) bool { return v >= 20 },
			models.StatusALittleLow,
			"Your vitamin D is a little low, which can weaken bones over time.",
			"Spend more time in sunlight and include dairy or fish in your diet."},
		{func(v float64) bool { return v < 20 },
			models.StatusNeedsAttention,
			"Your vitamin D is very low and can affect your bones and immunity.",
			"Please ask a doctor about vitamin D supplements."},
	},
}
