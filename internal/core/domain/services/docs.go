// Package services holds domain services: stateless logic that spans more than
// one aggregate and therefore belongs to none of them.
package services
