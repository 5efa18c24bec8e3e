package internal

import (
	"iter"
)

// IterSeq2Concat chains dual-value iterators, in order, into one sequence.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// IterSeq2Filter yields only the pairs accepted by keep.
func IterSeq2Filter[K any, V any](seq iter.Seq2[K, V], keep func(K, V) bool) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for key, value := range seq {
			if !keep(key, value) {
				continue
			}
			if !yield(key, value) {
				return
			}
		}
	}
}
