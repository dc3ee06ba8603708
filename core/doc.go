// Package core contains the canonical application-context domain: the named
// app registry, the per-app token cache with proactive refresh, and the
// collaborator contracts. Stores and adapters must depend on this package;
// core must not depend on storage-specific or transport-specific adapters.
package core
