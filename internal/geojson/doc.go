// Package geojson ingests parcel exports and classifies their owner names.
//
// Parcel GeoJSON carries one OWNERNAME property per feature; ParseOwners
// collects the distinct values in first-appearance order so batch runs are
// deterministic. PrivateOwner separates individuals, whose names get looked
// up against the registry, from corporate registrants, which are skipped.
package geojson
