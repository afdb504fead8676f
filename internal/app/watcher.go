package app

// onConfigChanged handles a debounced change of the scorecard file. Errors
// are logged by reload; the previous scorecard stays active.
func (a *App) onConfigChanged() {
	a.reload(TriggerWatch)
}
