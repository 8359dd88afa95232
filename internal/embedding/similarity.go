package embedding

import (
	"sort"
)

// Neighbor is one result of a k-nearest-neighbour query.
type Neighbor struct {
	ID         string
	Similarity float32
}

// Knn returns every entry in vectors whose cosine similarity to query is
// at least threshold, excluding ids in exclude, sorted descending, capped
// at limit when limit > 0 (spec §4.8).
func Knn(query []float32, vectors map[string][]float32, threshold float32, limit int, exclude map[string]bool) []Neighbor {
	var out []Neighbor
	for id, v := range vectors {
		if exclude[id] {
			continue
		}
		sim, err := Cosine(query, v)
		if err != nil {
			continue
		}
		if sim >= threshold {
			out = append(out, Neighbor{ID: id, Similarity: sim})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AvgKnn returns the mean similarity of targetID's k nearest neighbours
// (excluding itself); 0 if the target is missing or has no neighbours
// (spec §4.8).
func AvgKnn(targetID string, vectors map[string][]float32, k int) float32 {
	target, ok := vectors[targetID]
	if !ok {
		return 0
	}
	neighbors := Knn(target, vectors, -1, 0, map[string]bool{targetID: true})
	if len(neighbors) == 0 {
		return 0
	}
	if k > 0 && len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	var sum float32
	for _, n := range neighbors {
		sum += n.Similarity
	}
	return sum / float32(len(neighbors))
}

// Pair is an unordered candidate duplicate pair.
type Pair struct {
	A, B       string
	Similarity float32
}

// DuplicateOptions configures the LSH fast path (spec §4.8, §6 config
// table: lsh_collection_threshold / lsh_hash_bits / lsh_tables).
type DuplicateOptions struct {
	Threshold        float32
	LSHThreshold      int
	NumHashBits      int
	NumTables        int
	// RandSeed selects the deterministic hyperplane generator (tests
	// must pass a fixed seed; production code should pass one derived
	// from a stable value, e.g. the scope root path, so LSH buckets are
	// reproducible across invocations against the same index).
	RandSeed int64
}

// DefaultDuplicateOptions matches spec §6's documented defaults.
func DefaultDuplicateOptions() DuplicateOptions {
	return DuplicateOptions{
		Threshold:    0.92,
		LSHThreshold: 200,
		NumHashBits: 10,
		NumTables:   6,
		RandSeed:    1,
	}
}

// Duplicates enumerates unordered pairs from vectors with similarity at
// or above opts.Threshold, sorted descending. Below opts.LSHThreshold
// entries it brute-forces every pair; at or above, it builds LSH tables
// and only compares pairs sharing a bucket in at least one table, which
// may miss some borderline pairs near the threshold in exchange for
// sub-quadratic cost (spec §4.8).
func Duplicates(vectors map[string][]float32, opts DuplicateOptions) []Pair {
	if len(vectors) < opts.LSHThreshold {
		return duplicatesBruteForce(vectors, opts.Threshold)
	}
	return duplicatesLSH(vectors, opts)
}

func duplicatesBruteForce(vectors map[string][]float32, threshold float32) []Pair {
	ids := sortedIDs(vectors)
	var out []Pair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			sim, err := Cosine(vectors[ids[i]], vectors[ids[j]])
			if err != nil {
				continue
			}
			if sim >= threshold {
				out = append(out, Pair{A: ids[i], B: ids[j], Similarity: sim})
			}
		}
	}
	sortPairs(out)
	return out
}

func duplicatesLSH(vectors map[string][]float32, opts DuplicateOptions) []Pair {
	ids := sortedIDs(vectors)
	if len(ids) == 0 {
		return nil
	}
	dims := len(vectors[ids[0]])
	tables := buildHyperplaneTables(opts.NumTables, opts.NumHashBits, dims, opts.RandSeed)

	seen := map[[2]string]bool{}
	var out []Pair
	for _, table := range tables {
		buckets := map[string][]string{}
		for _, id := range ids {
			sig := table.signature(vectors[id])
			buckets[sig] = append(buckets[sig], id)
		}
		for _, members := range buckets {
			if len(members) < 2 {
				continue
			}
			sort.Strings(members)
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					key := [2]string{members[i], members[j]}
					if seen[key] {
						continue
					}
					seen[key] = true
					sim, err := Cosine(vectors[members[i]], vectors[members[j]])
					if err != nil {
						continue
					}
					if sim >= opts.Threshold {
						out = append(out, Pair{A: members[i], B: members[j], Similarity: sim})
					}
				}
			}
		}
	}
	sortPairs(out)
	return out
}

func sortedIDs(vectors map[string][]float32) []string {
	ids := make([]string, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Similarity != pairs[j].Similarity {
			return pairs[i].Similarity > pairs[j].Similarity
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}

// hyperplaneTable is one random-hyperplane LSH table: numHashBits random
// unit vectors whose sign pattern against a vector forms its bucket
// signature.
type hyperplaneTable struct {
	planes [][]float32
}

func (t hyperplaneTable) signature(v []float32) string {
	bits := make([]byte, len(t.planes))
	for i, plane := range t.planes {
		if dot(plane, v) >= 0 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits)
}

func dot(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func buildHyperplaneTables(numTables, numHashBits, dims int, seed int64) []hyperplaneTable {
	rng := newSplitMix64(seed)
	tables := make([]hyperplaneTable, numTables)
	for t := 0; t < numTables; t++ {
		planes := make([][]float32, numHashBits)
		for h := 0; h < numHashBits; h++ {
			plane := make([]float32, dims)
			for d := 0; d < dims; d++ {
				plane[d] = rng.nextGaussianish()
			}
			planes[h] = plane
		}
		tables[t] = hyperplaneTable{planes: planes}
	}
	return tables
}

// splitMix64 is a small deterministic PRNG so LSH hyperplanes are
// reproducible given a seed, without depending on math/rand's global
// state or version-dependent stream.
type splitMix64 struct{ state uint64 }

func newSplitMix64(seed int64) *splitMix64 {
	return &splitMix64{state: uint64(seed)}
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// nextGaussianish approximates a standard-normal sample via a
// sum-of-uniforms (Irwin-Hall) approach, which is good enough for
// hyperplane orientation and avoids pulling in a full normal sampler.
func (s *splitMix64) nextGaussianish() float32 {
	var sum float64
	const n = 12
	for i := 0; i < n; i++ {
		sum += float64(s.next()%1_000_000) / 1_000_000
	}
	return float32(sum - n/2)
}
