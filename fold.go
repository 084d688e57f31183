package ridgecv

// Fold represents one outer train/test split of the trial axis. Each index
// refers to a trial position in the global target vector and the trial
// dimension of the feature data.
type Fold struct {
	// Train are the trials used to fit the decoder for this fold, including
	// the inner penalty-selection partitions.
	Train []int
	// Test are the held-out trials the outer fit is scored on.
	Test []int
}

// InterleavedFolds partitions nTrials into k outer folds. Fold i holds out
// every k-th trial starting at offset i and trains on the remainder, so each
// trial is tested exactly once and trained on in k-1 folds.
func InterleavedFolds(nTrials, k int) []Fold {
	if k <= 0 {
		panic("ridgecv: non-positive number of folds")
	}
	if nTrials < 0 {
		panic("ridgecv: negative number of trials")
	}
	if k > nTrials {
		k = nTrials
	}
	folds := make([]Fold, k)
	for i := range folds {
		train, test := InterleavedPartition(nTrials, k, i)
		folds[i].Train = train
		folds[i].Test = test
	}
	return folds
}

// InterleavedPartition splits the ordered positions 0..n-1 into a held-out
// block and its complement. The held-out block is every k-th position
// starting at offset (0 <= offset < k); the complement keeps its order.
func InterleavedPartition(n, k, offset int) (train, test []int) {
	if offset < 0 || offset >= k {
		panic("ridgecv: partition offset out of range")
	}
	nTest := n / k
	if offset < n%k {
		nTest++
	}
	test = make([]int, 0, nTest)
	train = make([]int, 0, n-nTest)
	for i := 0; i < n; i++ {
		if i%k == offset {
			test = append(test, i)
		} else {
			train = append(train, i)
		}
	}
	return train, test
}
