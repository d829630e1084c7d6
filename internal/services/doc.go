// Package services holds cross-cutting helpers shared by the external
// service clients: the sentinel error taxonomy used to classify failures.
package services
