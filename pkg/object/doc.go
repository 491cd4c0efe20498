// Grounded on ObjectInfo/PropertyInfo navigation helpers from the
// original ConfigDB object-view layer (findObject/findProperty,
// alias redirection, union variant selection) and on the ObjectInfo
// descriptor shapes this package walks (see pkg/schema).
package object
