// Package types defines the Storage interface, the six lodging entities
// (State, City, Amenity, User, Place, Review), their shared identity and
// timestamp contract, and the standard errors for the hbnb storage core.
//
// Entities are plain records. Persistence is the job of a Storage
// implementation; callers never reach a backend through an entity.
package types
