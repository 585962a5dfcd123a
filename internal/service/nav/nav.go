package nav

import "github.com/jgivc/centuriae/internal/entity"

// Link attaches to every entry its neighbours in corpus order.
func Link(corpus *entity.Corpus) []*entity.Linked {
	n := corpus.Len()
	linked := make([]*entity.Linked, n)

	for i := 0; i < n; i++ {
		l := &entity.Linked{Entry: corpus.At(i)}
		if i > 0 {
			l.Previous = corpus.At(i - 1)
		}
		if i < n-1 {
			l.Next = corpus.At(i + 1)
		}

		linked[i] = l
	}

	return linked
}
