package verdict

// Classify reduces a job result to its headline verdict kind.
//
// Rules are applied in order and the first match wins:
//
// 1. An infrastructure error is KindError.
// 2. A compilation other than CompSuccess is its compilation kind.
// 3. A single-run result is its execution kind.
// 4. Otherwise it is the kind of the first batch that is not correct, or
// KindCorrect when every batch is correct or there are no batches.
//
// Time, Memory and Extra are never inspected.
func Classify(r *JobResult) Kind {
	if r == nil {
		return KindNothing
	}
	if r.Error {
		return KindError
	}
	if r.Compilation != CompSuccess {
		return r.Compilation.Kind()
	}
	if r.Result != nil {
		return r.Result.Kind()
	}
	return ClassifyBatches(r.Batches)
}

// ClassifyBatches returns the kind of the first batch, in index order, whose
// outcome is not ResultCorrect. A later, more severe outcome does not win.
func ClassifyBatches(batches []BatchResult) Kind {
	for _, b := range batches {
		if b.Result != ResultCorrect {
			return b.Result.Kind()
		}
	}
	return KindCorrect
}

// FirstOffending returns the index of the batch that decides the verdict, or
// -1 when every batch is correct.
func FirstOffending(batches []BatchResult) int {
	for i, b := range batches {
		if b.Result != ResultCorrect {
			return i
		}
	}
	return -1
}
