package search

import (
	"github.com/poiesic/chatsift/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterParse(parsed *core.ParsedQuery)
	AfterSemanticSearch(ids []uint64)
	AfterKeywordSearch(ids []uint64)
	AfterTemporalSearch(ids []uint64)
	AfterRetrieval(messages []*core.Message)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterParse(_ *core.ParsedQuery)       {}
func (n *noopMonitor) AfterSemanticSearch(_ []uint64)       {}
func (n *noopMonitor) AfterKeywordSearch(_ []uint64)        {}
func (n *noopMonitor) AfterTemporalSearch(_ []uint64)       {}
func (n *noopMonitor) AfterRetrieval(_ []*core.Message)     {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)        {}
