// Package requirements loads and validates the declarative requirements
// document shipped with a template bundle. The document names the template,
// declares compatibility constraints, and defines the ordered list of user
// inputs the installer must collect before it can reconcile anything
// against the NMS platform.
//
// Input ordering in the document is significant: a condition may only
// reference inputs declared earlier. Definitions are immutable once loaded.
package requirements
