// Package style resolves visual properties for nodes and links by zoom
// tier and group, and answers the layout configuration queries the force
// engine needs.
//
// # Properties
//
// [Properties] is an immutable snapshot of the discovery-graph settings:
// canvas geometry and colour, initial offsets and zoom, zoom bounds,
// group-keyed force parameters, and per-tier visual maps. It is read from
// TOML with [LoadProperties] or [DecodeProperties]:
//
//	width = 960
//	height = 600
//	initial_zoom_scale = 0.8
//
//	[many_body_strength]
//	default = -120
//	faculty = -400
//
//	[tiers.overview.node_radius]
//	default = 6
//	faculty = 14
//
// # Tiers
//
// A [Tier] names a zoom level's style bucket. The session picks the tier
// from the depth of the current scope root with [TierForDepth]; the
// documented default is [TierOverview].
//
// # Totality
//
// [Resolver.Node] and [Resolver.Link] always return a complete style. A
// group absent from a property map uses that map's "default" key. A missing
// tier falls back to [DefaultTier], and a map with no usable key falls back
// to a built-in constant. Both of these are lookup misses: they log a
// STYLE_LOOKUP_MISS warning and notify observability.Style(), and are never
// fatal.
package style
