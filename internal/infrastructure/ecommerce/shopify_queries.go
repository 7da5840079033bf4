package ecommerce

const imageFragment = `
fragment image on Image {
  url
  altText
  width
  height
}
`

const seoFragment = `
fragment seo on SEO {
  description
  title
}
`

const productFragment = `
fragment product on Product {
  id
  handle
  availableForSale
  title
  description
  descriptionHtml
  options {
    id
    name
    values
  }
  priceRange {
    maxVariantPrice {
      amount
      currencyCode
    }
    minVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 250) {
    edges {
      node {
        id
        title
        availableForSale
        selectedOptions {
          name
          value
        }
        price {
          amount
          currencyCode
        }
      }
    }
  }
  featuredImage {
    ...image
  }
  images(first: 20) {
    edges {
      node {
        ...image
      }
    }
  }
  seo {
    ...seo
  }
  tags
  vendor
  productType
  updatedAt
}
` + imageFragment + seoFragment

const cartFragment = `
fragment cart on Cart {
  id
  checkoutUrl
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            title
            selectedOptions {
              name
              value
            }
            product {
              id
              handle
              title
              featuredImage {
                ...image
              }
            }
          }
        }
      }
    }
  }
  totalQuantity
}
` + imageFragment

const collectionFragment = `
fragment collection on Collection {
  handle
  title
  description
  seo {
    ...seo
  }
  updatedAt
}
` + seoFragment

const articleFragment = `
fragment article on Article {
  id
  handle
  title
  excerpt
  contentHtml
  publishedAt
  tags
  authorV2 {
    name
  }
  image {
    ...image
  }
  seo {
    ...seo
  }
  blog {
    handle
  }
}
` + imageFragment + seoFragment

const pageFragment = `
fragment page on Page {
  id
  title
  handle
  body
  bodySummary
  seo {
    ...seo
  }
  createdAt
  updatedAt
}
` + seoFragment

const customerTokenFields = `
customerAccessToken {
  accessToken
  expiresAt
}
customerUserErrors {
  code
  field
  message
}
`

const (
	getCartQuery = `
query getCart($cartId: ID!) {
  cart(id: $cartId) {
    ...cart
  }
}
` + cartFragment

	createCartMutation = `
mutation createCart($lineItems: [CartLineInput!]) {
  cartCreate(input: { lines: $lineItems }) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

	addToCartMutation = `
mutation addToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

	removeFromCartMutation = `
mutation removeFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

	editCartItemsMutation = `
mutation editCartItems($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

	getProductQuery = `
query getProduct($handle: String!) {
  product(handle: $handle) {
    ...product
  }
}
` + productFragment

	getProductsQuery = `
query getProducts($sortKey: ProductSortKeys, $reverse: Boolean, $query: String, $first: Int!, $after: String) {
  products(sortKey: $sortKey, reverse: $reverse, query: $query, first: $first, after: $after) {
    edges {
      node {
        ...product
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}
` + productFragment

	getProductRecommendationsQuery = `
query getProductRecommendations($productId: ID!) {
  productRecommendations(productId: $productId) {
    ...product
  }
}
` + productFragment

	getCollectionQuery = `
query getCollection($handle: String!) {
  collection(handle: $handle) {
    ...collection
  }
}
` + collectionFragment

	getCollectionsQuery = `
query getCollections {
  collections(first: 100, sortKey: TITLE) {
    edges {
      node {
        ...collection
      }
    }
  }
}
` + collectionFragment

	getCollectionProductsQuery = `
query getCollectionProducts($handle: String!, $sortKey: ProductCollectionSortKeys, $reverse: Boolean, $first: Int!, $after: String) {
  collection(handle: $handle) {
    products(sortKey: $sortKey, reverse: $reverse, first: $first, after: $after) {
      edges {
        node {
          ...product
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}
` + productFragment

	getMenuQuery = `
query getMenu($handle: String!) {
  menu(handle: $handle) {
    items {
      title
      url
    }
  }
}
`

	getPageQuery = `
query getPage($handle: String!) {
  pageByHandle(handle: $handle) {
    ...page
  }
}
` + pageFragment

	getPagesQuery = `
query getPages {
  pages(first: 100) {
    edges {
      node {
        ...page
      }
    }
  }
}
` + pageFragment

	getBlogArticlesQuery = `
query getBlogArticles($handle: String!, $first: Int!, $after: String) {
  blog(handle: $handle) {
    handle
    title
    seo {
      ...seo
    }
    articles(first: $first, after: $after, sortKey: PUBLISHED_AT, reverse: true) {
      edges {
        node {
          ...article
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}
` + articleFragment

	getArticleQuery = `
query getArticle($blogHandle: String!, $articleHandle: String!) {
  blog(handle: $blogHandle) {
    articleByHandle(handle: $articleHandle) {
      ...article
    }
  }
}
` + articleFragment

	customerAccessTokenCreateMutation = `
mutation customerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
` + customerTokenFields + `
  }
}
`

	customerAccessTokenCreateWithMultipassMutation = `
mutation customerAccessTokenCreateWithMultipass($multipassToken: String!) {
  customerAccessTokenCreateWithMultipass(multipassToken: $multipassToken) {
` + customerTokenFields + `
  }
}
`

	customerAccessTokenDeleteMutation = `
mutation customerAccessTokenDelete($customerAccessToken: String!) {
  customerAccessTokenDelete(customerAccessToken: $customerAccessToken) {
    deletedAccessToken
    userErrors {
      field
      message
    }
  }
}
`

	customerCreateMutation = `
mutation customerCreate($input: CustomerCreateInput!) {
  customerCreate(input: $input) {
    customer {
      id
      firstName
      lastName
      email
      phone
      acceptsMarketing
    }
    customerUserErrors {
      code
      field
      message
    }
  }
}
`

	customerRecoverMutation = `
mutation customerRecover($email: String!) {
  customerRecover(email: $email) {
    customerUserErrors {
      code
      field
      message
    }
  }
}
`

	getCustomerQuery = `
query getCustomer($customerAccessToken: String!) {
  customer(customerAccessToken: $customerAccessToken) {
    id
    firstName
    lastName
    email
    phone
    acceptsMarketing
    orders(first: 10, sortKey: PROCESSED_AT, reverse: true) {
      edges {
        node {
          id
          orderNumber
          processedAt
          totalPrice {
            amount
            currencyCode
          }
          fulfillmentStatus
        }
      }
    }
  }
}
`
)
