// Package browser defines the automation contracts a retrieval session
// drives: a Driver hands out isolated Pages, Pages locate and fill Controls
// addressed by Locator values.
//
// The package ships one implementation, ReplayDriver, which serves recorded
// result documents from a capture directory. Live engines implement the same
// interfaces out of tree; session and batch code depends only on the
// contracts.
package browser
