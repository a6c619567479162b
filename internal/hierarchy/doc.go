// Package hierarchy propagates selection, visibility, opacity, colour and
// representation changes through the entity tree.
//
// Entities own aspects and nested entities; a command on an entity fans
// out to its aspects and, when asked, to every descendant. Selecting an
// aspect also selects its parent entity and, depending on
// SelectionOptions, highlights connected entities, draws connection lines
// and ghosts the rest of the scene.
package hierarchy
