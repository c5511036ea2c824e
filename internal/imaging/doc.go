// Package imaging loads, saves and annotates images for the OCR smoke test.
//
// Decoding and encoding go through disintegration/imaging, so PNG, JPEG,
// GIF, TIFF and BMP are all supported. Images are kept in their stored pixel
// layout; EXIF orientation is ignored so overlays share the engine's frame.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. These match the
// coordinates Tesseract reports for bounding boxes.
//
// # Overlays
//
// DrawOverlay renders detected text regions on top of the source image:
//   - The background is desaturated and lightened (bild/adjust) so outlines stand out
//   - Each polygon is outlined in a colour from ConfidenceColor, red for low
//     confidence through green for high (go-colorful, blended in HCL)
//   - Optional labels are drawn with the basicfont 7x13 face
//
// Outlines and labels that fall outside the image are clipped.
package imaging
