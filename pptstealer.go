// Package pptstealer converts a public article page into a print-ready PDF.
// It locates the slide images embedded in the article, drops images that are
// not slides (icons, banners, QR codes), and lays the survivors out one per
// landscape A4 page.
//
// This package contains domain types, the pure filtering and layout logic, and
// the interfaces implemented elsewhere. Implementations live in subdirectories
// named after their primary dependency (e.g., goquery/, pdfcpu/, rod/).
package pptstealer
